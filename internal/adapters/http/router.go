package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/momentsync/internal/adapters/ws"
	"github.com/dkeye/momentsync/internal/app"
	"github.com/dkeye/momentsync/internal/auth"
	"github.com/dkeye/momentsync/internal/config"
	"github.com/dkeye/momentsync/internal/domain"
	"github.com/dkeye/momentsync/internal/media"
	"github.com/dkeye/momentsync/internal/store"
)

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// IdentityMiddleware resolves the authenticated username from the
// cookie session or a bearer/query JWT. Anonymous callers proceed with
// an empty user; endpoints that need identity reject them themselves.
func IdentityMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if name, ok := sess.Get("username").(string); ok && name != "" {
			c.Set("user", name)
			c.Next()
			return
		}

		token := c.Query("token")
		if token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token != "" {
			if claims, err := auth.ParseToken(cfg, token); err == nil {
				c.Set("user", claims.Username)
			} else {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("invalid token")
			}
		}
		c.Next()
	}
}

// SetupRouter wires the REST surface and the WebSocket endpoint.
func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator, st store.Store, mediaSvc *media.Service) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	cookieStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MomentSessions", cookieStore))
	r.Use(ClientTokenMiddleware())
	r.Use(IdentityMiddleware(cfg.JWT))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	api := r.Group("/api")

	// POST /api/auth/login — dev identity endpoint. Real deployments
	// put an external identity provider in front; the core only needs
	// an authenticated username per connection.
	api.POST("/auth/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		uid, err := domain.NewUserID(req.Username)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess := sessions.Default(c)
		sess.Set("username", string(uid))
		if err := sess.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
			return
		}
		token, err := auth.NewToken(cfg.JWT, string(uid))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": uid, "token": token})
	})

	// POST /api/moments — create a moment owned by the caller.
	api.POST("/moments", func(c *gin.Context) {
		user := domain.UserID(c.GetString("user"))
		if user.Anonymous() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		var req struct {
			Name          string   `json:"name"`
			Description   string   `json:"description"`
			Members       []string `json:"members"`
			IsPublic      bool     `json:"is_public"`
			WebRTCEnabled bool     `json:"webrtc_enabled"`
		}
		if err := c.BindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
			return
		}
		if len(req.Name) > domain.MaxMomentNameLen {
			req.Name = req.Name[:domain.MaxMomentNameLen]
		}

		allowed := []domain.UserID{user}
		for _, m := range req.Members {
			uid, err := domain.NewUserID(m)
			if err != nil || uid == user {
				continue
			}
			allowed = append(allowed, uid)
		}
		m := &domain.Moment{
			ID:            domain.MomentID(uuid.NewString()),
			Name:          req.Name,
			Description:   req.Description,
			Owner:         user,
			AllowedUsers:  allowed,
			IsPublic:      req.IsPublic,
			WebRTCEnabled: req.WebRTCEnabled,
		}
		if err := st.CreateMoment(c.Request.Context(), m); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("create moment failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
			return
		}
		c.JSON(http.StatusOK, momentResponse(m))
	})

	// GET /api/moments/:momentID — moment info for members.
	api.GET("/moments/:momentID", func(c *gin.Context) {
		user := domain.UserID(c.GetString("user"))
		m, err := st.GetMoment(c.Request.Context(), domain.MomentID(c.Param("momentID")))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		if !m.IsPublic && !m.HasMember(user) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.JSON(http.StatusOK, momentResponse(m))
	})

	// POST /api/moments/:momentID/media — upload through the media
	// pipeline; the append and broadcast go through the same code path
	// the WebSocket add_media uses.
	api.POST("/moments/:momentID/media", func(c *gin.Context) {
		user := domain.UserID(c.GetString("user"))
		momentID := domain.MomentID(c.Param("momentID"))
		if !orch.Authorize(c.Request.Context(), user, momentID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
			return
		}
		defer file.Close()
		if header.Size > cfg.Media.MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}

		mediaID, err := mediaSvc.Process(c.Request.Context(), file, header.Header.Get("Content-Type"))
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("media processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
			return
		}

		orch.AddMedia(c.Request.Context(), momentID, user, mediaID, 0)
		c.JSON(http.StatusOK, gin.H{"media_id": mediaID})
	})

	// GET /media/:mediaID — serve a stored object.
	r.GET("/media/:mediaID", func(c *gin.Context) {
		rc, err := mediaSvc.Storage.Open(c.Request.Context(), domain.MediaID(c.Param("mediaID")))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		defer rc.Close()
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, rc)
	})

	ctl := ws.NewController(orch, cfg)
	r.GET("/ws/moments/:momentID", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("moment", c.Param("momentID")).
			Str("user", c.GetString("user")).Msg("ws endpoint hit")
		ctl.Handle(ctx, c)
	})

	return r
}

func momentResponse(m *domain.Moment) gin.H {
	return gin.H{
		"id":             m.ID,
		"name":           m.Name,
		"description":    m.Description,
		"owner":          m.Owner,
		"media_count":    len(m.MediaIDs),
		"member_count":   len(m.AllowedUsers),
		"is_public":      m.IsPublic,
		"webrtc_enabled": m.WebRTCEnabled,
	}
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/momentsync/internal/domain"
)

func (o *Orchestrator) handleAddMedia(ctx context.Context, c *Client, data []byte) {
	var p mediaPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MediaID == "" {
		log.Warn().Str("module", "app.media").Msg("bad add_media payload")
		return
	}
	o.AddMedia(ctx, c.Moment, c.User, domain.MediaID(p.MediaID), p.Timestamp)
}

func (o *Orchestrator) handleRemoveMedia(ctx context.Context, c *Client, data []byte) {
	var p mediaPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MediaID == "" {
		log.Warn().Str("module", "app.media").Msg("bad remove_media payload")
		return
	}

	changed, err := o.Store.RemoveMedia(ctx, c.Moment, domain.MediaID(p.MediaID))
	if err != nil {
		log.Error().Err(err).Str("module", "app.media").
			Str("moment", string(c.Moment)).Str("media", p.MediaID).Msg("remove media failed")
		return
	}
	if !changed {
		return
	}

	o.broadcast(c.Moment, MediaRemovedEvent{
		Type:      "media_removed",
		MediaID:   p.MediaID,
		Remover:   c.User,
		Timestamp: stampOr(p.Timestamp),
	}, "")
}

// AddMedia appends a media id to the moment's set and, on an actual
// state change, broadcasts media_added to the whole room (sender
// included, for UI confirmation) and notifies the other members'
// personal channels. Also used by the HTTP upload path, so the REST
// surface and the WebSocket surface share one code path.
func (o *Orchestrator) AddMedia(ctx context.Context, momentID domain.MomentID, uploader domain.UserID, mediaID domain.MediaID, ts int64) {
	changed, err := o.Store.AppendMedia(ctx, momentID, mediaID)
	if err != nil {
		log.Error().Err(err).Str("module", "app.media").
			Str("moment", string(momentID)).Str("media", string(mediaID)).Msg("append media failed")
		return
	}
	if !changed {
		return
	}

	o.broadcast(momentID, MediaAddedEvent{
		Type:      "media_added",
		MediaID:   string(mediaID),
		Uploader:  uploader,
		Timestamp: stampOr(ts),
	}, "")

	m, err := o.Store.GetMoment(ctx, momentID)
	if err != nil {
		log.Error().Err(err).Str("module", "app.media").
			Str("moment", string(momentID)).Msg("notify lookup failed")
		return
	}
	body := fmt.Sprintf("%s uploaded new media", uploader)
	for _, member := range m.AllowedUsers {
		if member == uploader {
			continue
		}
		o.NotifyUser(member, "MomentSync Update", body, "media_upload")
	}
}

func stampOr(ts int64) int64 {
	if ts != 0 {
		return ts
	}
	return time.Now().UnixMilli()
}

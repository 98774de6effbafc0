package service

import (
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
	streamDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/samber/lo"
)

// Detect compares freshly fetched items with the prior collection and
// returns one notification per item that just went live or was just
// scheduled. An item already upcoming before is not announced again.
func Detect(prior, fresh []streamDomain.Item, now time.Time) []domain.Notification {
	previous := lo.KeyBy(prior, func(item streamDomain.Item) string { return item.ID })

	return lo.FilterMap(fresh, func(item streamDomain.Item, _ int) (domain.Notification, bool) {
		old, existed := previous[item.ID]

		var kind domain.Kind
		switch {
		case item.Status == streamDomain.StatusLive && (!existed || old.Status != streamDomain.StatusLive):
			kind = domain.KindLive
		case item.Status == streamDomain.StatusUpcoming && !existed:
			kind = domain.KindScheduled
		default:
			return domain.Notification{}, false
		}

		return domain.Notification{
			ItemID:       item.ID,
			Kind:         kind,
			ChannelID:    item.ChannelID,
			ChannelTitle: item.ChannelTitle,
			Title:        domain.Label(kind, item.ChannelTitle),
			Body:         item.Title,
			ThumbnailURL: item.ThumbnailURL,
			Link:         item.WatchURL(),
			CreatedAt:    now.UTC(),
		}, true
	})
}

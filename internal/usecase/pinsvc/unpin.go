package pinsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocid "github.com/ipfs/go-cid"
	"github.com/rs/zerolog"

	"github.com/yourname/pin_relay/internal/models"
)

const healthTimeout = 2 * time.Second

// Unpin снимает пин в Pinata. Ошибка апстрима возвращается как есть.
func (s *Pins) Unpin(ctx context.Context, cid string) error {
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return fmt.Errorf("%w: cid is empty", models.ErrInvalidCID)
	}
	if s.ValidateCID {
		if _, err := gocid.Decode(cid); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidCID, err)
		}
	}

	if err := s.Client.Unpin(ctx, cid); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("cid", cid).Msg("upload unpinned")
	return nil
}

// Health проверяет ключи и доступность Pinata.
func (s *Pins) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return s.Client.TestAuthentication(ctx)
}

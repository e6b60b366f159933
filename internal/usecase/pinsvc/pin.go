package pinsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yourname/pin_relay/internal/models"
)

// Pin читает входящую форму по частям и стримит подходящие файлы в Pinata.
// Исходящий запрос стартует на первой подходящей части; без файлов апстрим не вызывается.
func (s *Pins) Pin(ctx context.Context, mr *multipart.Reader) (models.PinResult, error) {
	logger := zerolog.Ctx(ctx)

	var root string
	if s.WrapDirectory {
		root = uuid.NewString()
	}

	var (
		out   *outboundForm
		files int
		total int64
	)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.PinResult{}, s.failRead(ctx, out, err)
		}

		name, ok := s.qualify(part)
		if !ok {
			logger.Debug().Str("field", part.FormName()).Msg("skipping form part")
			_ = part.Close()
			continue
		}

		if out == nil {
			out, err = startOutbound(ctx, s.Client, s.CIDVersion)
			if err != nil {
				_ = part.Close()
				return models.PinResult{}, out.upstreamFailure(err)
			}
		}

		path := outboundPath(root, name)
		n, err := out.writeFile(path, part.Header.Get("Content-Type"), part)
		_ = part.Close()
		if err != nil {
			if out.writeFailed() {
				return models.PinResult{}, out.upstreamFailure(err)
			}
			return models.PinResult{}, s.failRead(ctx, out, err)
		}

		files++
		total += n
		logger.Debug().
			Str("path", path).
			Str("size", units.HumanSize(float64(n))).
			Msg("part forwarded")
	}

	if out == nil {
		return models.PinResult{}, models.ErrNoFiles
	}

	resp, err := out.finish()
	if err != nil {
		return models.PinResult{}, err
	}

	logger.Info().
		Str("cid", resp.IpfsHash).
		Int("files", files).
		Int64("bytes", total).
		Bool("duplicate", resp.IsDuplicate).
		Msg("upload pinned")

	return models.PinResult{
		CID:       resp.IpfsHash,
		Size:      resp.PinSize,
		Files:     files,
		Duplicate: resp.IsDuplicate,
	}, nil
}

// qualify отбирает файловые части с разрешённым именем поля.
func (s *Pins) qualify(part *multipart.Part) (string, bool) {
	if _, ok := s.fields[part.FormName()]; !ok {
		return "", false
	}

	name := relativePath(declaredFilename(part), s.PreservePaths)
	if name == "" {
		return "", false
	}

	return name, true
}

// failRead обрывает исходящий запрос при ошибке чтения входящей формы.
func (s *Pins) failRead(ctx context.Context, out *outboundForm, err error) error {
	err = fmt.Errorf("%w: %w", models.ErrMalformedUpload, err)
	if out != nil {
		if upErr := out.abort(err); upErr != nil {
			zerolog.Ctx(ctx).Debug().Err(upErr).Msg("pin request aborted")
		}
	}

	return err
}

package stubhttp

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	"mime"
	"net/http"
	"time"

	gocid "github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"github.com/rs/zerolog/hlog"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/httperrors"
	"github.com/yourname/pin_relay/pkg/pinataproto"
)

// pinFile принимает multipart-форму и закрепляет её содержимое.
func (a *Server) pinFile(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		badRequest(w, err)
		return
	}

	opts := pinataproto.PinOptions{}
	h := sha256.New()
	var (
		files []string
		size  int64
	)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			badRequest(w, err)
			return
		}

		switch part.FormName() {
		case pinataproto.FieldOptions:
			if err = json.NewDecoder(part).Decode(&opts); err != nil {
				badRequest(w, fmt.Errorf("pinataOptions: %w", err))
				return
			}
		case pinataproto.FieldFile:
			name := rawFilename(part.Header.Get("Content-Disposition"))
			n, err := hashFile(h, name, part)
			if err != nil {
				badRequest(w, err)
				return
			}
			files = append(files, name)
			size += n
		}
		_ = part.Close()
	}

	if len(files) == 0 {
		badRequest(w, errors.New("no files provided"))
		return
	}

	cid, err := contentID(h.Sum(nil), opts.CIDVersion)
	if err != nil {
		badRequest(w, err)
		return
	}

	now := time.Now().UTC()
	duplicate := a.pins.Save(models.Pin{
		CID:       cid,
		Size:      size,
		Files:     files,
		CreatedAt: now,
	})

	hlog.FromRequest(r).Info().
		Str("cid", cid).
		Int("files", len(files)).
		Int64("size", size).
		Bool("duplicate", duplicate).
		Msg("stub pinned upload")

	httperrors.WriteJSON(w, http.StatusOK, pinataproto.PinResponse{
		IpfsHash:    cid,
		PinSize:     size,
		Timestamp:   now.Format(time.RFC3339),
		IsDuplicate: duplicate,
	})
}

// hashFile добавляет путь и содержимое файла в общий хеш загрузки.
func hashFile(h hash.Hash, name string, r io.Reader) (int64, error) {
	_, _ = io.WriteString(h, name)
	h.Write([]byte{0})
	return io.Copy(h, r)
}

// contentID собирает CID из sha2-256 дайджеста. v0: base58 dag-pb, v1: base32 raw.
func contentID(digest []byte, version int) (string, error) {
	sum, err := mh.Encode(digest, mh.SHA2_256)
	if err != nil {
		return "", err
	}

	switch version {
	case 0:
		return gocid.NewCidV0(sum).String(), nil
	case 1:
		return gocid.NewCidV1(gocid.Raw, sum).String(), nil
	default:
		return "", fmt.Errorf("unsupported cidVersion %d", version)
	}
}

func rawFilename(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func badRequest(w http.ResponseWriter, err error) {
	httperrors.WriteJSON(w, http.StatusBadRequest, stubError{Error: stubReason{
		Reason:  "INVALID_REQUEST",
		Details: err.Error(),
	}})
}

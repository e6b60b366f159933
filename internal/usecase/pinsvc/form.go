package pinsvc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/pinataclient"
	"github.com/yourname/pin_relay/pkg/pinataproto"
)

// sniffLen: сколько байт части читаем вперёд для определения MIME-типа.
const sniffLen = 3072

// sinkWriter запоминает первую ошибку записи в pipe, чтобы отличать сбой апстрима от сбоя входящего тела.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}

// outboundForm: исходящая multipart-форма, которая стримится в Pinata через io.Pipe.
type outboundForm struct {
	pw   *io.PipeWriter
	sink *sinkWriter
	mw   *multipart.Writer
	eg   *errgroup.Group
	resp pinataproto.PinResponse
}

// startOutbound поднимает запрос в Pinata, читающий из pipe, и пишет поле pinataOptions.
func startOutbound(ctx context.Context, cli pinataclient.Client, cidVersion int) (*outboundForm, error) {
	pr, pw := io.Pipe()
	sink := &sinkWriter{w: pw}
	f := &outboundForm{
		pw:   pw,
		sink: sink,
		mw:   multipart.NewWriter(sink),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	f.eg = eg
	contentType := f.mw.FormDataContentType()

	eg.Go(func() error {
		resp, err := cli.PinFile(egCtx, pr, contentType)
		if err != nil {
			// Разблокируем писателя: дальнейшие Write вернут ошибку апстрима.
			_ = pr.CloseWithError(err)
			return err
		}
		_ = pr.Close()
		f.resp = resp
		return nil
	})

	opts, err := json.Marshal(pinataproto.PinOptions{CIDVersion: cidVersion})
	if err != nil {
		return f, err
	}
	if err = f.mw.WriteField(pinataproto.FieldOptions, string(opts)); err != nil {
		return f, err
	}

	return f, nil
}

// writeFile копирует входящую часть в новую часть исходящей формы.
func (f *outboundForm) writeFile(name, contentType string, r io.Reader) (int64, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, pinataproto.FieldFile, escapeQuotes(name)))
	h.Set("Content-Type", detectContentType(contentType, br))

	w, err := f.mw.CreatePart(h)
	if err != nil {
		return 0, err
	}

	return io.Copy(w, br)
}

// writeFailed сообщает, что последняя ошибка возникла на стороне исходящего потока.
func (f *outboundForm) writeFailed() bool {
	return f.sink.err != nil
}

// upstreamFailure обрывает форму и возвращает ошибку апстрима, если она есть.
func (f *outboundForm) upstreamFailure(writeErr error) error {
	if err := f.abort(writeErr); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, writeErr)
}

// abort закрывает pipe с ошибкой и дожидается завершения запроса в Pinata.
func (f *outboundForm) abort(cause error) error {
	_ = f.pw.CloseWithError(cause)
	return f.eg.Wait()
}

// finish дописывает закрывающий boundary и ждёт ответ Pinata.
func (f *outboundForm) finish() (pinataproto.PinResponse, error) {
	if err := f.mw.Close(); err != nil {
		return pinataproto.PinResponse{}, f.upstreamFailure(err)
	}
	_ = f.pw.Close()

	if err := f.eg.Wait(); err != nil {
		return pinataproto.PinResponse{}, err
	}

	return f.resp, nil
}

// detectContentType берёт заявленный тип части, а для пустого или octet-stream определяет его по содержимому.
func detectContentType(declared string, br *bufio.Reader) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared
	}

	head, _ := br.Peek(sniffLen)
	return mimetype.Detect(head).String()
}

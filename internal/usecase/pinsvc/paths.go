package pinsvc

import (
	"mime"
	"mime/multipart"
	"path"
	"strings"
)

// declaredFilename возвращает filename из Content-Disposition как есть.
// multipart.Part.FileName() обрезает путь до basename, а нам нужны каталоги.
func declaredFilename(p *multipart.Part) string {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return p.FileName()
	}

	return params["filename"]
}

// relativePath строит путь части в исходящей форме.
// Первый сегмент каталога считается синтетическим корнем загрузки и отбрасывается:
// "rootdir/sub/file.txt" -> "sub/file.txt", "file.txt" -> "file.txt".
// Без preserve остаётся только basename.
func relativePath(declared string, preserve bool) string {
	declared = strings.ReplaceAll(declared, `\`, "/")

	segments := make([]string, 0, strings.Count(declared, "/")+1)
	for _, s := range strings.Split(declared, "/") {
		switch s {
		case "", ".", "..":
			continue
		}
		segments = append(segments, s)
	}

	switch {
	case len(segments) == 0:
		return ""
	case !preserve:
		return segments[len(segments)-1]
	case len(segments) == 1:
		return segments[0]
	default:
		return path.Join(segments[1:]...)
	}
}

// outboundPath добавляет per-request корень, если он задан.
func outboundPath(root, rel string) string {
	if root == "" {
		return rel
	}
	return root + "/" + rel
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

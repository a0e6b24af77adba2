package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// compressMinBytes - тела меньше этого размера отдаются как есть
const compressMinBytes = 1024

// compressibleTypes - JSON API, экспорт и встроенные ресурсы UI
var compressibleTypes = []string{
	"application/json",
	"application/javascript",
	"text/",
	"image/svg+xml",
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, 5)
		return w
	},
}

// gzipResponseWriter копит первые compressMinBytes байт и только потом решает,
// сжимать ли ответ: решение зависит от статуса, Content-Type и размера тела.
type gzipResponseWriter struct {
	http.ResponseWriter
	status   int
	buf      []byte
	decided  bool
	compress bool
	gz       *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if w.decided {
		if w.compress {
			return w.gz.Write(b)
		}
		return w.ResponseWriter.Write(b)
	}

	w.buf = append(w.buf, b...)
	if len(w.buf) >= compressMinBytes {
		if err := w.decide(); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

// Flush нужен для потоковых ответов; буфер сбрасывается вместе с решением о сжатии
func (w *gzipResponseWriter) Flush() {
	if !w.decided {
		if w.status == 0 {
			w.status = http.StatusOK
		}
		_ = w.decide()
	}
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *gzipResponseWriter) decide() error {
	w.decided = true
	h := w.Header()

	w.compress = len(w.buf) >= compressMinBytes && compressible(h, w.status)
	if w.compress {
		h.Set("Content-Encoding", "gzip")
		// handler (например FileServer) мог выставить длину несжатого тела
		h.Del("Content-Length")
		w.gz = gzipWriterPool.Get().(*gzip.Writer)
		w.gz.Reset(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(w.status)

	if len(w.buf) == 0 {
		return nil
	}
	var err error
	if w.compress {
		_, err = w.gz.Write(w.buf)
	} else {
		_, err = w.ResponseWriter.Write(w.buf)
	}
	w.buf = nil
	return err
}

func (w *gzipResponseWriter) finish() {
	if !w.decided && w.status != 0 {
		_ = w.decide()
	}
	if w.gz != nil {
		_ = w.gz.Close()
		w.gz.Reset(io.Discard)
		gzipWriterPool.Put(w.gz)
		w.gz = nil
	}
}

func compressible(h http.Header, status int) bool {
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		return false
	}
	if h.Get("Content-Encoding") != "" {
		return false
	}
	contentType := strings.ToLower(h.Get("Content-Type"))
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

// acceptsGzip разбирает Accept-Encoding; "gzip;q=0" означает отказ
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") && strings.TrimSpace(coding) != "*" {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

// Compression сжимает JSON API, экспорт и статику gzip'ом.
// Websocket upgrade, HEAD и /metrics (promhttp сжимает сам) не трогаются.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead ||
			strings.EqualFold(r.Header.Get("Upgrade"), "websocket") ||
			r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		if !acceptsGzip(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		gzw := &gzipResponseWriter{ResponseWriter: w}
		defer gzw.finish()

		next.ServeHTTP(gzw, r)
	})
}

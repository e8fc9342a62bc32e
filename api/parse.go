package api

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxBodySize = 1 << 20

// readBody decodes the raw request body: transparent gzip, charset
// enforcement and a JSON well-formedness check. Anything failing here is
// a ParseError of the "decode" sub-kind.
func readBody(req *http.Request) ([]byte, *apiError) {
	reader := io.Reader(http.MaxBytesReader(nil, req.Body, maxBodySize))

	if strings.EqualFold(req.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, parseError(map[string]string{
				"decode": "invalid gzip data: " + err.Error(),
			})
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, parseError(map[string]string{
			"decode": "cannot read body: " + err.Error(),
		})
	}

	if err := checkCharset(req.Header.Get("Content-Type"), body); err != nil {
		return nil, parseError(map[string]string{"decode": err.Error()})
	}

	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return nil, nil
	}

	if !json.Valid(body) {
		return nil, parseError(map[string]string{
			"decode": "body is not valid JSON",
		})
	}

	return body, nil
}

type charsetError string

func (ce charsetError) Error() string {
	return string(ce)
}

// checkCharset enforces the UTF-8 default: an explicit incompatible
// charset declaration or byte content that is not valid UTF-8 fails
// decoding.
func checkCharset(contentType string, body []byte) error {
	if contentType != "" {
		_, params, err := mime.ParseMediaType(contentType)
		if err == nil {
			charset := strings.ToLower(params["charset"])
			if charset != "" && charset != "utf-8" && charset != "us-ascii" {
				return charsetError("unsupported charset " + charset)
			}
		}
	}

	if !utf8.Valid(body) {
		return charsetError("body is not valid utf-8")
	}

	return nil
}

// clientIP resolves the requester address, preferring the forwarding
// header set by the load balancer.
func clientIP(req *http.Request) net.IP {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}

	return net.ParseIP(host)
}

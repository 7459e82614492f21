package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// proxyPathPrefix is the route prefix of camera proxy requests.
const proxyPathPrefix = "/proxy/"

// proxyTarget is one camera stream reachable through a proxy token.
type proxyTarget struct {
	DeviceID string
	Slot     int
	Upstream *url.URL

	// handler is nil when the upstream scheme cannot be reverse proxied.
	handler http.Handler
	timeout time.Duration
}

// bindProxies builds the token table from every device's proxied URLs.
//
// Alias devices carry copies of their primary's proxied URLs, so a token
// already bound is skipped. Slots that cannot be bound are reported and
// left out of the table.
func bindProxies(registry *device.Registry, timeout time.Duration, errLog *log.Logger) (map[string]*proxyTarget, []error) {
	targets := make(map[string]*proxyTarget)
	var errs []error

	for _, d := range registry.All() {
		for slot := 1; slot <= device.StreamSlotCount; slot++ {
			proxied, ok := d.ProxiedURLs[device.ProxyKey(slot)]
			if !ok {
				continue
			}

			token := tokenFromURL(proxied)
			if token == "" {
				errs = append(errs, fmt.Errorf("device %s slot %d: no token in %q", d.ID, slot, proxied))
				continue
			}
			if _, bound := targets[token]; bound {
				continue
			}

			raw := d.CameraURI[device.CameraURIKey(slot)]
			if raw == "" {
				errs = append(errs, fmt.Errorf("device %s slot %d: no camera URI %s", d.ID, slot, device.CameraURIKey(slot)))
				continue
			}
			upstream, err := url.Parse(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("device %s slot %d: camera URI: %w", d.ID, slot, err))
				continue
			}

			target := &proxyTarget{
				DeviceID: d.ID,
				Slot:     slot,
				Upstream: upstream,
				timeout:  timeout,
			}
			if upstream.Scheme == "http" || upstream.Scheme == "https" {
				target.handler = newReverseProxy(upstream, d.AuthCred, errLog)
			}
			targets[token] = target
		}
	}

	return targets, errs
}

// tokenFromURL returns the last path segment of a proxied URL.
func tokenFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	token := path.Base(u.Path)
	if token == "/" || token == "." {
		return ""
	}
	return token
}

// newReverseProxy forwards requests to upstream. Credentials come from
// authCred ("user:password") or, failing that, the upstream userinfo.
func newReverseProxy(upstream *url.URL, authCred string, errLog *log.Logger) *httputil.ReverseProxy {
	user, pass, hasAuth := strings.Cut(authCred, ":")
	if !hasAuth && upstream.User != nil {
		user = upstream.User.Username()
		pass, _ = upstream.User.Password()
		hasAuth = true
	}

	base := *upstream
	base.User = nil

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			out := base
			if rest := chi.URLParam(pr.In, "*"); rest != "" {
				out.Path = strings.TrimSuffix(base.Path, "/") + "/" + rest
				out.RawPath = ""
			}
			if pr.In.URL.RawQuery != "" {
				if out.RawQuery == "" {
					out.RawQuery = pr.In.URL.RawQuery
				} else {
					out.RawQuery += "&" + pr.In.URL.RawQuery
				}
			}
			pr.Out.URL = &out
			pr.Out.Host = out.Host
			if hasAuth {
				pr.Out.SetBasicAuth(user, pass)
			}
			pr.SetXForwarded()
		},
		FlushInterval: -1,
		ErrorLog:      errLog,
		ErrorHandler:  func(w http.ResponseWriter, _ *http.Request, err error) {
			if errLog != nil {
				errLog.Printf("camera proxy to %s: %v", base.Host, err)
			}
			if errors.Is(err, context.DeadlineExceeded) {
				writeError(w, http.StatusGatewayTimeout, ErrCodeBadGateway, "camera stream timed out")
				return
			}
			writeError(w, http.StatusBadGateway, ErrCodeBadGateway, "camera stream unavailable")
		},
	}
}

// handleProxy forwards a camera request to the stream bound to the token.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	_, proxies := s.snapshot()

	target, ok := proxies[chi.URLParam(r, "token")]
	if !ok {
		writeNotFound(w, "unknown proxy token")
		return
	}
	if target.handler == nil {
		writeError(w, http.StatusNotImplemented, ErrCodeNotImplemented,
			fmt.Sprintf("cannot proxy %s streams", target.Upstream.Scheme))
		return
	}

	if target.timeout > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), target.timeout)
		defer cancel()
		r = r.WithContext(ctx)
	}

	s.logger.Debug("proxying camera stream",
		"device", target.DeviceID,
		"slot", target.Slot,
		"upstream_host", target.Upstream.Host,
	)
	target.handler.ServeHTTP(w, r)
}

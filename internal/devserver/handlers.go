package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"github.com/broady/enumshare/i18n"
	"github.com/broady/enumshare/ir"
	"github.com/broady/enumshare/lookup"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "invalid_argument"
	CodeNotFound        ErrorCode = "not_found"
	CodeInternal        ErrorCode = "internal"
)

// Error is the JSON error envelope.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type localeQuery struct {
	Locale string `schema:"locale"`
}

type labelsQuery struct {
	Enum   string `schema:"enum,required"`
	Locale string `schema:"locale"`
	Key    string `schema:"key"`
	Value  string `schema:"value"`
}

// LabeledCase is one row of a labels response.
type LabeledCase struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Label string `json:"label"`
}

// LabelsResponse is returned by /labels.
type LabelsResponse struct {
	Enum   string        `json:"enum"`
	Locale string        `json:"locale,omitempty"`
	Cases  []LabeledCase `json:"cases"`
}

// ModuleFile describes one generated file.
type ModuleFile struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		s.writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return false
	}
	return true
}

// localeOf validates the locale parameter. Empty is the default locale.
func (s *Server) localeOf(w http.ResponseWriter, locale string) bool {
	if locale == "" {
		return true
	}
	if err := i18n.ValidateLocale(locale); err != nil {
		s.writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return false
	}
	return true
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	var q localeQuery
	if !s.decodeQuery(w, r, &q) || !s.localeOf(w, q.Locale) {
		return
	}
	snap, err := s.snapshot(r.Context(), q.Locale)
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	s.writeJSON(w, snap.result.Report.Manifest)
}

func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	var q localeQuery
	if !s.decodeQuery(w, r, &q) || !s.localeOf(w, q.Locale) {
		return
	}
	snap, err := s.snapshot(r.Context(), q.Locale)
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	files := make([]ModuleFile, 0, len(snap.files))
	for _, p := range snap.paths() {
		files = append(files, ModuleFile{Path: p, Size: len(snap.files[p])})
	}
	s.writeJSON(w, files)
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	var q localeQuery
	if !s.decodeQuery(w, r, &q) || !s.localeOf(w, q.Locale) {
		return
	}
	snap, err := s.snapshot(r.Context(), q.Locale)
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	path := r.PathValue("path")
	content, ok := snap.files[path]
	if !ok {
		s.writeError(w, http.StatusNotFound, CodeNotFound, "no generated file "+strconv.Quote(path))
		return
	}
	w.Header().Set("Content-Type", "text/typescript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(content)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	var q labelsQuery
	if !s.decodeQuery(w, r, &q) || !s.localeOf(w, q.Locale) {
		return
	}
	snap, err := s.snapshot(r.Context(), q.Locale)
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	enum, ok := snap.enums[q.Enum]
	if !ok {
		s.writeError(w, http.StatusNotFound, CodeNotFound, "no enum "+strconv.Quote(q.Enum))
		return
	}

	resp := LabelsResponse{Enum: enum.Name(), Locale: q.Locale}
	label := func(c ir.Case) LabeledCase {
		return LabeledCase{
			Key:   c.Key,
			Value: c.Value,
			Label: lookup.ResolveLabel(c.Label, q.Locale, s.opts.FallbackLocale),
		}
	}

	switch {
	case q.Key != "":
		c, ok := enum.FromKey(q.Key)
		if !ok {
			s.writeError(w, http.StatusNotFound, CodeNotFound, "no case with key "+strconv.Quote(q.Key))
			return
		}
		resp.Cases = []LabeledCase{label(c)}
	case q.Value != "":
		c, ok := enum.From(queryValue(enum.Entry().Backing, q.Value))
		if !ok {
			s.writeError(w, http.StatusNotFound, CodeNotFound, "no case with value "+strconv.Quote(q.Value))
			return
		}
		resp.Cases = []LabeledCase{label(c)}
	default:
		resp.Cases = make([]LabeledCase, 0, enum.Count())
		for _, c := range enum.Entries() {
			resp.Cases = append(resp.Cases, label(c))
		}
	}
	s.writeJSON(w, resp)
}

// queryValue converts a query parameter to the backing kind of the enum.
func queryValue(backing ir.BackingKind, raw string) any {
	if backing == ir.BackingInt {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	return raw
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeInternal(w http.ResponseWriter, err error) {
	s.log.Error("build failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, code ErrorCode, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Error{Code: code, Message: msg}); err != nil {
		s.log.Error("encode error response", zap.Error(err))
	}
}

package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodemap/pkg/errors"
	"github.com/matzehuels/nodemap/pkg/io"
	"github.com/matzehuels/nodemap/pkg/pipeline"
	"github.com/matzehuels/nodemap/pkg/store"
)

// Response headers set on rendered artifacts.
const (
	HeaderCache    = "X-Nodemap-Cache"
	HeaderDocument = "X-Nodemap-Document"
)

type diagramSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func summarize(rec *store.Record) diagramSummary {
	return diagramSummary{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	def, err := s.readDefinition(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, format, err := renderOptions(r, r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, def, opts, format)
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	def, err := s.readDefinition(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Save(r.Context(), def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored diagram", "id", rec.ID, "nodes", len(def.Nodes), "edges", len(def.Edges))
	w.Header().Set("Location", "/api/v1/diagrams/"+rec.ID)
	writeJSON(w, http.StatusCreated, summarize(rec))
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]diagramSummary, len(recs))
	for i := range recs {
		out[i] = summarize(&recs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": out})
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	opts, format, err := renderOptions(r, chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, rec.Definition, opts, format)
}

// render runs the pipeline for a single format and writes the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request, def *io.Definition, opts pipeline.Options, format string) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.runner.ExecuteDefinition(ctx, def, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheState := "miss"
	if len(result.CacheInfo.Hits) > 0 {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set(HeaderCache, cacheState)
	w.Header().Set(HeaderDocument, result.DocumentHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) readDefinition(w http.ResponseWriter, r *http.Request) (*io.Definition, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()
	def, err := io.ReadJSON(body)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// renderOptions reads pipeline options from the query string. The format
// defaults to svg.
func renderOptions(r *http.Request, format string) (pipeline.Options, string, error) {
	q := r.URL.Query()
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Formats: []string{format},
		Layout:  q.Get("layout"),
	}

	var err error
	if opts.Prune, err = boolParam(q, "prune"); err != nil {
		return opts, "", err
	}
	if opts.NormalizeViewBox, err = boolParam(q, "normalize"); err != nil {
		return opts, "", err
	}
	if opts.Refresh, err = boolParam(q, "refresh"); err != nil {
		return opts, "", err
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "scale: invalid number %q", v)
		}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s: invalid boolean %q", name, v)
	}
	return b, nil
}

package host

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/paint"
)

// maxUploadBytes bounds a multipart import request.
const maxUploadBytes = 64 << 20

// LayerInfo describes one stack entry in GET /layers.
type LayerInfo struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Kind   string `json:"kind"` // image | group
	Blend  string `json:"blend,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type handler struct {
	session *Session
	logger  *slog.Logger
}

// NewRouter returns the HTTP surface of s.
func NewRouter(s *Session) http.Handler {
	h := &handler{session: s, logger: s.logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/status", h.handleStatus)
	r.Get("/composite.png", h.handleComposite)
	r.Post("/resize", h.handleResize)

	r.Get("/layers", h.handleLayers)
	r.Post("/layers", h.handleAddLayer)
	r.Delete("/layers/{index}", h.handleRemoveLayer)
	r.Put("/layers/{index}/blend", h.handleSetBlend)
	r.Post("/groups", h.handleAddGroup)

	r.Post("/bind/{index}", h.handleBind)
	r.Post("/apply", h.handleApply)
	r.Post("/undo", h.handleUndo)
	r.Post("/redo", h.handleRedo)
	r.Post("/zoom/in", h.handleZoom(true))
	r.Post("/zoom/out", h.handleZoom(false))

	r.Post("/strokes", h.handleStroke)
	r.Post("/import", h.handleImport)

	return r
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	var st paint.Status
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		st = c.Status()
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) handleComposite(w http.ResponseWriter, r *http.Request) {
	var out *paint.Pixmap
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		var err error
		out, err = c.Composite()
		return err
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := out.EncodePNG(&buf); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (h *handler) handleResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	width, height, err := paint.Dimensions(req.Width, req.Height)
	if err != nil {
		h.fail(w, err)
		return
	}

	var ok bool
	err = h.session.Do(r.Context(), func(c *paint.Canvas) error {
		ok = c.Resize(width, height)
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

func (h *handler) handleLayers(w http.ResponseWriter, r *http.Request) {
	var infos []LayerInfo
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		for i, l := range c.Layers() {
			info := LayerInfo{Index: i, Name: l.Name(), Kind: "group"}
			if img, ok := l.(*paint.ImageLayer); ok {
				info.Kind = "image"
				info.Blend = img.BlendMode().String()
				info.Width, info.Height = img.Pixels().Size()
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"layers": infos})
}

func (h *handler) handleAddLayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Blend string `json:"blend"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, known := paint.ParseBlendMode(req.Blend)
	if !known {
		h.logger.Warn("host: unknown blend mode, using source-over", "blend", req.Blend)
	}

	var index int
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		var err error
		index, err = c.AddImage(req.Name, mode)
		return err
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

func (h *handler) handleRemoveLayer(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = h.session.Do(r.Context(), func(c *paint.Canvas) error {
		_, err := c.RemoveLayerAt(index)
		return err
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"index": index})
}

func (h *handler) handleSetBlend(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Blend string `json:"blend"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, known := paint.ParseBlendMode(req.Blend)
	if !known {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown blend mode %q", req.Blend))
		return
	}

	err = h.session.Do(r.Context(), func(c *paint.Canvas) error {
		return c.SetLayerBlendMode(index, mode)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"blend": mode.String()})
}

func (h *handler) handleAddGroup(w http.ResponseWriter, r *http.Request) {
	var req paint.Group
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		return c.AddGroup(req.Name, req.Start, req.Length)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *handler) handleBind(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var groups []paint.Group
	err = h.session.Do(r.Context(), func(c *paint.Canvas) error {
		if err := c.Bind(index); err != nil {
			return err
		}
		groups = c.GroupsContaining(index)
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bound": index, "groups": groups})
}

func (h *handler) handleApply(w http.ResponseWriter, r *http.Request) {
	h.boolCommand(w, r, "published", (*paint.Canvas).Apply)
}

func (h *handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	h.boolCommand(w, r, "ok", (*paint.Canvas).Undo)
}

func (h *handler) handleRedo(w http.ResponseWriter, r *http.Request) {
	h.boolCommand(w, r, "ok", (*paint.Canvas).Redo)
}

func (h *handler) handleZoom(in bool) http.HandlerFunc {
	op := (*paint.Canvas).ZoomOut
	if in {
		op = (*paint.Canvas).ZoomIn
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h.boolCommand(w, r, "ok", op)
	}
}

func (h *handler) boolCommand(w http.ResponseWriter, r *http.Request, key string, op func(*paint.Canvas) bool) {
	var ok bool
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		ok = op(c)
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{key: ok})
}

func (h *handler) handleStroke(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points []paint.Point `json:"points"`
		Color  string        `json:"color"`
		Width  float64       `json:"width"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("stroke has no points"))
		return
	}
	brush := paint.Brush{Width: req.Width}
	if req.Color != "" {
		col, err := paint.ParseHexColor(req.Color)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		brush.Color = col
	}

	// The request brush applies to this stroke only.
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		saved := c.Brush()
		defer c.SetBrush(saved)
		c.SetBrush(brush)
		return c.Stroke(req.Points)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type importFailure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	files := r.MultipartForm.File["images"]
	blend := r.FormValue("blend")
	fit := r.FormValue("fit") == "true"

	sources := make([]paint.ImageSource, 0, len(files))
	for _, fh := range files {
		src := paint.ImageSource{Name: fh.Filename, Blend: blend, Fit: fit}
		if f, err := fh.Open(); err == nil {
			src.Data, _ = io.ReadAll(f)
			_ = f.Close()
		}
		sources = append(sources, src)
	}

	var res paint.ImportResult
	err := h.session.Do(r.Context(), func(c *paint.Canvas) error {
		res = c.Import(sources)
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	failed := make([]importFailure, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, importFailure{Index: f.Index, Name: f.Name, Error: f.Err.Error()})
	}
	added := res.Added
	if added == nil {
		added = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": added, "failed": failed})
}

// fail maps canvas errors to HTTP status codes. A corrupt history record is
// the only fatal case and is logged at Error.
func (h *handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, paint.ErrIndexOutOfRange):
		code = http.StatusNotFound
	case errors.Is(err, paint.ErrInvalidDimension),
		errors.Is(err, paint.ErrSizeMismatch),
		errors.Is(err, paint.ErrDecodeFailure):
		code = http.StatusBadRequest
	case errors.Is(err, ErrClosed):
		code = http.StatusServiceUnavailable
	case errors.Is(err, paint.ErrCorruptRecord):
		h.logger.Error("host: canvas state corrupt", "err", err)
	}
	writeError(w, code, err)
}

func indexParam(r *http.Request) (int, error) {
	s := chi.URLParam(r, "index")
	index, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("invalid layer index %q", s)
	}
	return index, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

package api

import (
	stderrors "errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"colstats/app"
	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
	"colstats/internal"
	"colstats/internal/errors"
	"colstats/ports"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// StatsHandler serves column statistics for files under a data directory
type StatsHandler struct {
	service *app.ColumnStatsService
	dataDir string
	jobs    *semaphore.Weighted
	logger  *internal.Logger
}

// NewStatsHandler creates a handler that runs at most maxJobs computations at once
func NewStatsHandler(service *app.ColumnStatsService, dataDir string, maxJobs int64, logger *internal.Logger) (*StatsHandler, error) {
	root, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resolve data directory %q", dataDir)
	}
	if maxJobs <= 0 {
		maxJobs = 1
	}
	return &StatsHandler{
		service: service,
		dataDir: root,
		jobs:    semaphore.NewWeighted(maxJobs),
		logger:  logger,
	}, nil
}

// GetStats computes statistics for ?path=&column=&strategy=
func (h *StatsHandler) GetStats(c *gin.Context) {
	path, err := h.resolvePath(c.Query("path"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	opts, err := readOptions(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.jobs.TryAcquire(1) {
		h.writeError(c, errors.Unavailable("too many computations in progress, retry later"))
		return
	}
	defer h.jobs.Release(1)

	result, err := h.service.Compute(c.Request.Context(), app.Request{
		Path:              path,
		Column:            c.Query("column"),
		Strategy:          c.Query("strategy"),
		InferSchemaLength: opts.InferSchemaLength,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newStatsResponse(c.Query("path"), result))
}

// GetSchema reports the inferred column types of ?path=
func (h *StatsHandler) GetSchema(c *gin.Context) {
	path, err := h.resolvePath(c.Query("path"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	opts, err := readOptions(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.jobs.TryAcquire(1) {
		h.writeError(c, errors.Unavailable("too many computations in progress, retry later"))
		return
	}
	defer h.jobs.Release(1)

	schema, err := h.service.DescribeSchema(c.Request.Context(), path, opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SchemaResponse{
		Path:     c.Query("path"),
		RowCount: schema.RowCount,
		Fields:   schema.Fields,
	})
}

// resolvePath confines a request path to the data directory
func (h *StatsHandler) resolvePath(requested string) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return "", errors.InvalidInput("query parameter \"path\" is required")
	}
	full := filepath.Join(h.dataDir, filepath.FromSlash(requested))
	rel, err := filepath.Rel(h.dataDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.InvalidInput("path must stay inside the data directory")
	}
	return full, nil
}

func readOptions(c *gin.Context) (ports.ReadOptions, error) {
	raw := c.Query("infer_schema_length")
	if raw == "" {
		return ports.ReadOptions{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return ports.ReadOptions{}, errors.InvalidInput("infer_schema_length must be a non-negative integer")
	}
	return ports.ReadOptions{InferSchemaLength: &n}, nil
}

func (h *StatsHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := ErrorResponse{
		Error: err.Error(),
		Code:  errors.GetCode(err),
		Stage: errors.GetStage(err),
	}

	switch body.Code {
	case errors.CodeColumnNotFound:
		status = http.StatusNotFound
		var notFound *tabular.ColumnNotFoundError
		if stderrors.As(err, &notFound) {
			body.Available = notFound.Available
		}
	case errors.CodeTypeCoercion:
		status = http.StatusUnprocessableEntity
		var coercionErr *domainStats.TypeCoercionError
		if stderrors.As(err, &coercionErr) {
			body.Column = coercionErr.Column
			body.Row = coercionErr.Row
			body.Value = &coercionErr.Value
		}
	case errors.CodeFileAccess:
		status = http.StatusBadRequest
		if stderrors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	// internal paths stay out of client responses
	body.Error = strings.ReplaceAll(body.Error, h.dataDir+string(filepath.Separator), "")

	if status >= http.StatusInternalServerError {
		h.logger.Error("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		h.logger.Debug("[API] %s %s rejected (%d): %v", c.Request.Method, c.Request.URL.Path, status, err)
	}
	c.JSON(status, body)
}

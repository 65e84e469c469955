// Package fileserver is the HTTP sideband that moves whole files between chat peers.
// A file is addressed by the base name of the request path.
package fileserver

import (
	goerrors "errors"
	"fmt"
	"lanchat/contract"
	"lanchat/domain"
	"lanchat/errors"
	"lanchat/observability"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type fileRequest struct {
	Name string `validate:"required,max=255,filename"`
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// validFileName rejects names that would escape the store or are not names at all.
func validFileName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

type Server struct {
	echo      *echo.Echo
	log       *slog.Logger
	store     contract.FileStore
	announcer contract.Announcer
	metrics   *observability.Metrics
}

func NewServer(log *slog.Logger, store contract.FileStore, announcer contract.Announcer, metrics *observability.Metrics) *Server {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Only fails on a duplicate or malformed tag
	_ = validate.RegisterValidation("filename", validFileName)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validate}

	s := &Server{
		echo:      e,
		log:       log,
		store:     store,
		announcer: announcer,
		metrics:   metrics,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the routes for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// registerRoutes answers 405 with an Allow header for any other method.
func (s *Server) registerRoutes() {
	s.echo.Use(s.requestLogger())
	s.echo.Use(middleware.Recover())

	s.echo.PUT("/*", s.handlePut)
	s.echo.GET("/*", s.handleGet)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.log.Debug("File request", attrs...)
			return nil
		},
	})
}

// fileName maps the request path to a flat file name.
func (s *Server) fileName(c echo.Context) (string, error) {
	req := fileRequest{Name: path.Base(path.Clean("/" + c.Request().URL.Path))}
	if err := c.Validate(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("%v: %q", errors.ErrInvalidFileName, c.Request().URL.Path)).SetInternal(err)
	}
	return req.Name, nil
}

func (s *Server) handlePut(c echo.Context) error {
	name, err := s.fileName(c)
	if err != nil {
		return err
	}

	created, err := s.store.Put(name, c.Request().Body)
	if err != nil {
		s.log.Error("Storing file failed", "file", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	s.metrics.FilesReceived.Inc()
	s.announcer.Announce(domain.FileReceivedLine(name))

	if created {
		return c.NoContent(http.StatusCreated)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleGet(c echo.Context) error {
	name, err := s.fileName(c)
	if err != nil {
		return err
	}

	data, err := s.store.Get(name)
	if goerrors.Is(err, errors.ErrFileNotFound) {
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
	}
	if err != nil {
		s.log.Error("Reading file failed", "file", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	s.metrics.FilesServed.Inc()
	return c.Blob(http.StatusOK, mimetype.Detect(data).String(), data)
}

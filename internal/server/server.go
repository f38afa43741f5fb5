package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/ics-einvoice/internal/assembler"
	"github.com/rezonia/ics-einvoice/internal/batch"
	"github.com/rezonia/ics-einvoice/internal/codes"
	"github.com/rezonia/ics-einvoice/internal/envelope"
	"github.com/rezonia/ics-einvoice/internal/ics"
	"github.com/rezonia/ics-einvoice/internal/model"
)

// Config holds server configuration
type Config struct {
	Address          string
	APIURL           string
	StrictDecode     bool
	HTTPTimeout      time.Duration
	BatchConcurrency int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	Debug            bool
}

// Server represents the HTTP gateway in front of the ICS API
type Server struct {
	config *Config
	router *gin.Engine
	client *ics.Client
	log    zerolog.Logger
}

// Option configures the server
type Option func(*serverOptions)

type serverOptions struct {
	transport ics.Transport
	log       zerolog.Logger
}

// WithTransport replaces the HTTP transport to the ICS API
func WithTransport(t ics.Transport) Option {
	return func(o *serverOptions) {
		o.transport = t
	}
}

// WithLogger sets the server logger
func WithLogger(log zerolog.Logger) Option {
	return func(o *serverOptions) {
		o.log = log
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	o := &serverOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.transport == nil {
		o.transport = ics.NewHTTPTransport(&http.Client{Timeout: config.HTTPTimeout})
	}

	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(o.log))

	s := &Server{
		config: config,
		router: router,
		client: ics.NewClient(o.transport,
			ics.WithStrictDecode(config.StrictDecode),
			ics.WithLogger(o.log.With().Str("component", "ics").Logger()),
		),
		log: o.log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/codes/:table", s.handleCodes)
		v1.GET("/schema/invoice", s.handleSchema)

		v1.POST("/login", s.handleLogin)

		v1.POST("/invoices/assemble", s.handleAssemble)
		v1.POST("/invoices", s.handleCreate)
		v1.POST("/invoices/batch", s.handleBatch)
		v1.POST("/invoices/search", s.handleSearch)

		v1.POST("/envelope/decode", s.handleDecode)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	return s.RunContext(context.Background())
}

// RunContext starts the HTTP server and shuts it down when ctx is done
func (s *Server) RunContext(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCodes(c *gin.Context) {
	name := c.Param("table")
	table, err := codes.Default().Table(codes.Kind(name))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, CodesResponse{
		Table:   name,
		Options: table.Options(),
	})
}

func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, assembler.Schema())
}

func (s *Server) handleAssemble(c *gin.Context) {
	var in assembler.FlatInvoice
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	doc, err := assembler.Assemble(&in)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AssembleResponse{
		Document: doc,
		Warnings: assembler.Check(doc),
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	session, err := s.client.Login(c.Request.Context(), s.config.APIURL, req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Cookie:     session.Token,
		ReturnCode: session.Result.ReturnCode,
		ReturnMsg:  session.Result.ReturnMsg,
	})
}

func (s *Server) handleCreate(c *gin.Context) {
	token := c.GetHeader(SessionHeader)
	if token == "" {
		s.writeError(c, model.NewMissingSessionError(ics.OpCreate))
		return
	}

	var in assembler.FlatInvoice
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	result, err := s.client.Submit(c.Request.Context(), s.config.APIURL, token, &in)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBatch(c *gin.Context) {
	mode, err := batch.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token := c.GetHeader(SessionHeader)
	if token == "" {
		s.writeError(c, model.NewMissingSessionError(ics.OpCreate))
		return
	}

	var invoices []assembler.FlatInvoice
	if err := c.ShouldBindJSON(&invoices); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if len(invoices) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one invoice is required"})
		return
	}

	outcomes, runErr := batch.Run(c.Request.Context(), len(invoices),
		batch.Options{Mode: mode, Concurrency: s.config.BatchConcurrency},
		func(ctx context.Context, i int) (*envelope.Result, error) {
			return s.client.Submit(ctx, s.config.APIURL, token, &invoices[i])
		})

	resp := BatchResponse{
		Mode:  string(mode),
		Items: make([]BatchItem, len(outcomes)),
	}
	for i, o := range outcomes {
		item := BatchItem{Index: o.Index, Result: o.Value}
		switch {
		case o.Err != nil:
			item.Error = o.Err.Error()
			resp.Failed++
		case o.Value != nil && !o.Value.Succeeded():
			item.Error = o.Value.ErrorMessage
			resp.Failed++
		default:
			resp.Succeeded++
		}
		resp.Items[i] = item
	}
	if runErr != nil {
		resp.Error = runErr.Error()
		log := s.requestLogger(c)
		log.Warn().Err(runErr).Str("mode", string(mode)).Msg("batch aborted")
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSearch(c *gin.Context) {
	token := c.GetHeader(SessionHeader)
	if token == "" {
		s.writeError(c, model.NewMissingSessionError(ics.OpSearch))
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	result, err := s.client.Search(c.Request.Context(), s.config.APIURL, token, ics.SearchQuery{
		TIN:         req.TIN,
		DocumentNum: req.DocumentNum,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDecode(c *gin.Context) {
	var env envelope.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.client.Codec().Decode(&env))
}

// writeError maps module errors to HTTP status codes
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		validationErr *model.ValidationError
		authErr       *model.AuthError
		transportErr  *model.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: validationErr.Error(),
			Field:   validationErr.Field,
		})
	case errors.Is(err, model.ErrMissingSession):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "session token missing",
			Details: "call /api/v1/login and send the cookie in the " + SessionHeader + " header",
		})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:      "login failed",
			Details:    authErr.Message,
			ReturnCode: authErr.ReturnCode,
		})
	case errors.As(err, &transportErr):
		log := s.requestLogger(c)
		log.Error().Err(err).Msg("ics transport failure")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "clearance API unavailable",
			Details: transportErr.Message,
		})
	default:
		log := s.requestLogger(c)
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

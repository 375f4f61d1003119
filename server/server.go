package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/chaos-io/colorkey/rembg"
	"github.com/chaos-io/colorkey/util"
)

const (
	// maxUploadSize 上传图片大小上限 10MB
	maxUploadSize = 10 << 20
	// formOverhead 其余表单字段和 multipart 边界
	formOverhead = 1 << 20
)

type Options struct {
	Addr       string
	SpoolDir   string
	Retention  time.Duration
	PurgeEvery time.Duration
}

type Server struct {
	opts   Options
	engine *gin.Engine
	spool  *Spool
	cron   *cron.Cron
}

func New(opts Options) (*Server, error) {
	spool, err := NewSpool(opts.SpoolDir, opts.Retention)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:  opts,
		spool: spool,
		cron:  cron.New(),
	}

	if opts.PurgeEvery > 0 {
		_, err = s.cron.AddFunc(fmt.Sprintf("@every %s", opts.PurgeEvery), s.purge)
		if err != nil {
			return nil, fmt.Errorf("schedule purge: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), logRequest())
	engine.MaxMultipartMemory = maxUploadSize

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := engine.Group("/v1")
	v1.POST("/remove", s.remove)
	v1.GET("/results/:id", s.result)

	s.engine = engine
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 阻塞直到 ctx 结束，然后优雅退出
func (s *Server) Run(ctx context.Context) error {
	// 启动时先清理一次
	s.purge()
	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
	}()

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("colorkey server listening", "addr", s.opts.Addr, "spool", s.opts.SpoolDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down colorkey server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) purge() {
	if _, err := s.spool.Purge(); err != nil {
		slog.Error("purge spool", "err", err)
	}
}

func (s *Server) remove(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+formOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image field"})
		return
	}
	if fh.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}

	var color *rembg.Color
	if raw := c.PostForm("color"); raw != "" {
		parsed, err := rembg.ParseColor(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		color = &parsed
	}

	tolerance, err := strconv.Atoi(c.DefaultPostForm("tolerance", strconv.Itoa(rembg.DefaultTolerance)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tolerance must be an integer"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %s", rembg.ErrUnreadableImage, fh.Filename)})
		return
	}
	img, format, err := util.DecodeImage(f)
	_ = f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %s: %v", rembg.ErrUnreadableImage, fh.Filename, err)})
		return
	}

	out, res := rembg.NewColorKey(color, tolerance).Key(img)
	data, err := util.EncodePNG(out)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v: %v", rembg.ErrWriteFailure, err)})
		return
	}

	slog.Debug("removed background", "file", fh.Filename, "format", format, "target", res.Target.String(), "cleared", res.Cleared)

	c.Header("X-Cleared-Pixels", strconv.Itoa(res.Cleared))
	if res.Sampled {
		c.Header(rembg.SampledColorHeader, fmt.Sprintf("%d,%d,%d", res.Target.R, res.Target.G, res.Target.B))
	}

	if c.Query("store") == "true" || c.PostForm("store") == "true" {
		id, err := s.spool.Save(data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "url": "/v1/results/" + id})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) result(c *gin.Context) {
	path, err := s.spool.Path(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	c.File(path)
}

func logRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"cost", time.Since(start))
	}
}

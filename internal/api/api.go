// Package api serves the example endpoints, each replying with a problem
// details body.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloggin "github.com/samber/slog-gin"

	"github.com/3lvia/problemdetails"
	"github.com/3lvia/problemdetails/ginproblem"
	"github.com/3lvia/problemdetails/internal/runtime"
)

func Serve(addr string, env runtime.Env) (func(ctx context.Context), <-chan error) {
	appServer := &http.Server{
		Addr:    addr,
		Handler: newHandler(env),
	}

	errChan := make(chan error, 1)

	go func(s *http.Server) {
		err := s.ListenAndServe()
		errChan <- err
	}(appServer)

	slog.Info(fmt.Sprintf("example server is listening on %s", addr))

	return func(ctx context.Context) {
		slog.InfoContext(ctx, "example server is shutting down")
		defer slog.InfoContext(ctx, "example server has shut down")

		if err := appServer.Shutdown(ctx); err != nil {
			_ = appServer.Close()
			slog.Error("could not stop the example server gracefully", "error", err)
		}
	}, errChan
}

func newHandler(env runtime.Env) http.Handler {
	switch env {
	case runtime.Development:
		gin.SetMode(gin.DebugMode)
	case runtime.Test:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(sloggin.NewWithConfig(slog.Default(), sloggin.Config{
		WithSpanID:  true,
		WithTraceID: true,
		Filters: []sloggin.Filter{
			sloggin.IgnorePath("/metrics"),
			sloggin.IgnorePath("/health"),
		},
	}))
	router.Use(gin.Recovery())

	router.NoRoute(func(c *gin.Context) {
		c.Render(http.StatusNotFound, ginproblem.U(
			http.StatusNotFound,
			"Not Found",
			fmt.Sprintf("path %s not found", c.Request.URL.Path)))
	})

	router.NoMethod(func(c *gin.Context) {
		c.Render(http.StatusMethodNotAllowed, ginproblem.U(
			http.StatusMethodNotAllowed,
			"Method Not Allowed",
			fmt.Sprintf("method %s not allowed", c.Request.Method)))
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/teapot", func(c *gin.Context) {
		ginproblem.Respond(c, problemdetails.
			FromStatusCode(http.StatusTeapot).
			WithDetail("short and stout"))
	})

	// NOTE: some browsers refuse to display application/problem+xml
	//       bodies. Use curl to inspect this response.
	router.GET("/teapot.xml", func(c *gin.Context) {
		ginproblem.RespondXML(c, problemdetails.
			FromStatusCode(http.StatusTeapot).
			WithDetail("short and stout"))
	})

	// The out-of-credit example from RFC 9457 section 3, extension
	// members included.
	router.GET("/credit", func(c *gin.Context) {
		details := problemdetails.
			FromStatusCode(http.StatusForbidden).
			WithType(problemdetails.MustProblemType("https://example.com/probs/out-of-credit")).
			WithTitle("You do not have enough credit.").
			WithDetail("Your current balance is 30, but that costs 50.").
			WithInstance(&url.URL{Path: "/account/12345/msgs/abc"})

		ginproblem.Respond(c, problemdetails.WithExtensions(details, problemdetails.Map{
			"balance":  30,
			"accounts": []string{"/account/12345", "/account/67890"},
		}))
	})

	router.GET("/whoami", func(c *gin.Context) {
		ginproblem.Respond(c, problemdetails.
			FromStatusCode(http.StatusUnauthorized).
			WithDetail("no credentials presented").
			WithInstance(problemdetails.NewInstance()))
	})

	router.GET("/favicon.ico", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return router
}

// Package api wires the Request Router: one HTTP surface synchronously
// mediating between the CLI and the persistent browser session held in
// Session State (spec §4.6).
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/api/handler"
	"github.com/use-agent/br/config"
	"github.com/use-agent/br/humanlike"
	"github.com/use-agent/br/instance"
)

// NewRouter builds the configured Gin engine for one daemon instance.
// There is no auth/rate-limit middleware: the daemon only ever listens
// on loopback and trusts its own CLI front-end (spec's trust boundary).
func NewRouter(st *instance.State, pacer *humanlike.Pacer, cfg *config.Config, requestStop func()) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", handler.Health())

	r.GET("/tabs", handler.ListTabs(st))
	r.POST("/tabs/switch", handler.SwitchTab(st))

	r.POST("/goto", handler.Goto(st, pacer))
	r.POST("/back", handler.Back(st))
	r.POST("/forward", handler.Forward(st))
	r.POST("/reload", handler.Reload(st))
	r.POST("/clear-cache", handler.ClearCache(st))

	r.POST("/scroll-into-view", handler.ScrollIntoView(st))
	r.POST("/scroll-to", handler.ScrollTo(st))
	r.POST("/next-chunk", handler.NextChunk(st))
	r.POST("/prev-chunk", handler.PrevChunk(st))
	r.POST("/fill", handler.Fill(st))
	r.POST("/fill-secret", handler.FillSecret(st))
	r.POST("/type", handler.Type(st, pacer))
	r.POST("/press", handler.Press(st))
	r.POST("/click", handler.Click(st, pacer))
	r.POST("/fill-search", handler.FillSearch(st))
	r.POST("/select", handler.Select(st))
	r.POST("/submit", handler.Submit(st))

	r.POST("/exists", handler.Exists(st))
	r.POST("/visible", handler.Visible(st))
	r.POST("/count", handler.Count(st))
	r.POST("/attr", handler.Attr(st))

	r.POST("/wait", handler.Wait(st))
	r.POST("/wait-load", handler.WaitLoad(st))
	r.POST("/wait-stable", handler.WaitStable(st))
	r.POST("/wait-idle", handler.WaitIdle(st))

	r.GET("/html", handler.HTML(st))
	r.GET("/tree", handler.Tree(st))
	r.POST("/extract-text", handler.ExtractText(st))

	r.GET("/screenshot", handler.Screenshot(st))
	r.GET("/pdf", handler.PDF(st))

	r.POST("/download", handler.Download(st))

	r.POST("/eval", handler.Eval(st))
	r.POST("/assert", handler.Assert(st))

	r.GET("/console", handler.Console(st))
	r.POST("/console/clear", handler.ConsoleClear(st))

	r.GET("/history", handler.History(st))
	r.POST("/history/clear", handler.HistoryClear(st))

	r.POST("/shutdown", handler.Shutdown(requestStop))

	return r
}

// Package server 提供推荐服务的 HTTP 边界。
// 领域层不感知 HTTP：这里只做参数解析、DTO 转换与错误映射。
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rushteam/prodrec/catalog"
	"github.com/rushteam/prodrec/config"
	"github.com/rushteam/prodrec/prefstore"
)

// DefaultMaxK 是单次请求返回条数的硬上限。
const DefaultMaxK = 50

// DefaultUser 是未指定 user 参数时的默认用户。
const DefaultUser = "u1"

// Server 聚合 HTTP 边界需要的全部依赖。
type Server struct {
	Catalog  *catalog.Catalog
	Prefs    *prefstore.Store
	Policies *config.PolicyRegistry

	// MaxK <= 0 时用 DefaultMaxK。
	MaxK int

	// DefaultK 未传 k 参数时的返回条数。
	DefaultK int

	Logger zerolog.Logger
}

// Router 组装路由与中间件。
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/preferences", s.handleGetPreferences)
	r.Post("/preferences", s.handleSetPreferences)
	r.Get("/recommendations", s.handleRecommendations)

	return r
}

func (s *Server) maxK() int {
	if s.MaxK <= 0 {
		return DefaultMaxK
	}
	return s.MaxK
}

// ListenAndServe 在 addr 上启动服务。
func (s *Server) ListenAndServe(addr string) error {
	s.Logger.Info().Str("addr", addr).Msg("http server listening")
	return http.ListenAndServe(addr, s.Router())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router of the remote store.
//
//	GET    /version
//	GET    /v1/manifest
//	DELETE /v1/resource
//	GET    /v1/resource/{resource}             list refs
//	POST   /v1/resource/{resource}             write, If-Match
//	DELETE /v1/resource/{resource}             delete all versions
//	GET    /v1/resource/{resource}/latest      If-None-Match
//	GET    /v1/resource/{resource}/{ref}
//	DELETE /v1/resource/{resource}/{ref}
//	GET    /v1/collection
//	POST   /v1/collection
//	DELETE /v1/collection
//	DELETE /v1/collection/{collection}
//	       /v1/collection/{collection}/resource/{resource}/...
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withOperationID, h.withLogging, withGZip)
	router.MethodNotAllowed(h.methodNotAllowed)

	router.Get("/version", h.getServerVersion)

	router.Route("/v1", func(r chi.Router) {
		r.Use(h.auth, h.withRequestLimit)

		r.Get("/manifest", h.getManifest)

		r.Delete("/resource", h.deleteResources)
		r.Route("/resource/{resource}", h.resourceRoutes)

		r.Get("/collection", h.listCollections)
		r.Post("/collection", h.createCollection)
		r.Delete("/collection", h.deleteCollection)
		r.Delete("/collection/{collection}", h.deleteCollection)
		r.Route("/collection/{collection}/resource/{resource}", h.resourceRoutes)
	})

	return router
}

func (h *Handler) resourceRoutes(r chi.Router) {
	r.Get("/", h.listResourceRefs)
	r.Post("/", h.writeResource)
	r.Delete("/", h.deleteResource)
	r.Get("/latest", h.getLatestResource)
	r.Get("/{ref}", h.getResource)
	r.Delete("/{ref}", h.deleteResource)
}

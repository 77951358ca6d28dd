package handlers

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	HealthCatalogue = "storefront.Catalogue"
	HealthCheckout  = "storefront.Checkout"
	HealthAdmin     = "storefront.Admin"
)

// NewGRPCServer returns a gRPC server exposing the standard health service. Each
// storefront area reports NOT_SERVING when its collaborator is missing.
func NewGRPCServer(h *Handler) (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	hs := health.NewServer()

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(HealthCatalogue, servingStatus(h.catalogue != nil))
	hs.SetServingStatus(HealthCheckout, servingStatus(h.gateway != nil))
	hs.SetServingStatus(HealthAdmin, servingStatus(h.admin != nil && h.keys != nil))

	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

// Package mocks provides gomock implementations of the console's collaborator interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockBackend(ctrl)
//	backend.EXPECT().GetJSON(gomock.Any(), "/api/gateways", gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Backend is the upstream transport used by every store:
// GetJSON, PostJSON, PutJSON, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/mxc-foundation/lpwan-console/internal/store Backend

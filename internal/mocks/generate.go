package mocks

// Mock generation directives. Run `go generate ./internal/mocks/` to regenerate.

//go:generate go run go.uber.org/mock/mockgen -source=../backend/types.go -destination=mock_backend.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../shaping/shaping.go -destination=mock_shaping.go -package=mocks

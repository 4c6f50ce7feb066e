package face

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider/mock"
)

// DetectorType defines supported face detector types
type DetectorType string

const (
	// DetectorTypeDeepFace is the DeepFace HTTP detector (a sidecar model server)
	DetectorTypeDeepFace DetectorType = "deepface"
	// DetectorTypeMock is the deterministic in-process detector (dev/test)
	DetectorTypeMock DetectorType = "mock"
)

// NewDetector creates a FaceDetector instance based on configuration.
//
// Environment variables:
//   - DETECTOR_TYPE: "deepface" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewDetector(cfg *config.Config) (provider.FaceDetector, error) {
	detectorType := DetectorType(cfg.DetectorType)

	switch detectorType {
	case DetectorTypeMock:
		return mock.New(), nil

	case DetectorTypeDeepFace, "":
		dfCfg := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			dfCfg.BaseURL = cfg.DeepFaceURL
		}
		return deepface.NewProvider(dfCfg), nil

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s)",
			cfg.DetectorType, DetectorTypeDeepFace, DetectorTypeMock)
	}
}

package orchestrator

import (
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
	"github.com/aurabx/harmony/internal/gatewayconfig"
	"github.com/aurabx/harmony/internal/middleware"
)

const factoryComponent = "orchestrator"

func legOption(options map[string]any, fallback middleware.Leg) middleware.Leg {
	switch stringOption(options, "leg", string(fallback)) {
	case string(middleware.LegLeft):
		return middleware.LegLeft
	case string(middleware.LegRight):
		return middleware.LegRight
	case string(middleware.LegBoth):
		return middleware.LegBoth
	default:
		return fallback
	}
}

// buildMiddleware constructs the built-in middleware.Middleware named by
// cfg.Type, per spec.md §4.B's kind table. Kinds backed by an external
// collaborator (transform, dicomweb_bridge, jmix_builder) fail with
// KindConfig if the matching Collaborators field is nil.
func buildMiddleware(name string, cfg gatewayconfig.MiddlewareConfig, collab Collaborators) (middleware.Middleware, error) {
	opts := cfg.Options

	switch cfg.Type {
	case "basic_auth":
		return middleware.NewBasicAuth(name, middleware.BasicAuthConfig{
			Credentials: stringMapOption(opts, "credentials"),
		}), nil

	case "jwt_auth":
		return middleware.NewJWTAuth(name, middleware.JWTAuthConfig{
			Secret:    []byte(stringOption(opts, "secret", "")),
			Issuer:    stringOption(opts, "issuer", ""),
			Audience:  stringOption(opts, "audience", ""),
			ClockSkew: durationMSOption(opts, "clock_skew_ms", 0),
		}), nil

	case "path_filter":
		return middleware.NewPathFilter(name, middleware.PathFilterConfig{
			Rules: stringSliceOption(opts, "rules"),
		}), nil

	case "json_extractor":
		return middleware.NewJSONExtractor(name, middleware.JSONExtractorConfig{
			Path:        stringOption(opts, "path", ""),
			FailOnError: boolOption(opts, "fail_on_error", false),
		}), nil

	case "transform":
		if collab.JOLTEngine == nil {
			return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "middleware "+name+" requires a JOLTEngine collaborator")
		}
		return middleware.NewTransform(name, middleware.TransformConfig{
			Spec:        []byte(stringOption(opts, "spec", "")),
			Leg:         legOption(opts, middleware.LegLeft),
			FailOnError: boolOption(opts, "fail_on_error", false),
		}, collab.JOLTEngine), nil

	case "metadata_transform":
		return middleware.NewMetadataTransform(name, middleware.MetadataTransformConfig{
			Leg:    legOption(opts, middleware.LegBoth),
			Set:    stringMapOption(opts, "set"),
			Remove: stringSliceOption(opts, "remove"),
		}), nil

	case "dicomweb_bridge":
		if collab.DICOMwebBridge == nil {
			return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "middleware "+name+" requires a DICOMwebBridge collaborator")
		}
		return middleware.NewDicomwebBridge(name, collab.DICOMwebBridge), nil

	case "jmix_builder":
		if collab.JMIXStore == nil {
			return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "middleware "+name+" requires a JMIXStore collaborator")
		}
		return middleware.NewJMIXBuilder(name, middleware.JMIXBuilderConfig{
			KeyFunc: jmixKeyFromURI,
		}, collab.JMIXStore), nil

	default:
		return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "unknown middleware type "+cfg.Type)
	}
}

// jmixKeyFromURI is the default JMIXBuilder cache key: the request's
// protocol-neutral URI, which already uniquely identifies a C-FIND/
// DICOMweb query within one endpoint.
func jmixKeyFromURI(req *envelope.RequestEnvelope[[]byte]) string {
	return req.RequestDetails.URI
}

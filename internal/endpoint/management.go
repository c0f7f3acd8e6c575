package endpoint

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aurabx/harmony/internal/envelope"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/gatewayconfig"
)

// TokenExchanger is the external collaborator /authorize defers to. A real
// implementation would speak to Runbeam (or an equivalent auth broker); no
// such collaborator is part of this project, so Management ships only the
// seam.
type TokenExchanger interface {
	Exchange(ctx context.Context, credentials []byte) ([]byte, error)
}

// unconfiguredExchanger is the default TokenExchanger: it reports
// Backend.Transport from Postprocess, which the pipeline executor answers
// with 500, so /authorize fails cleanly instead of panicking when no real
// exchanger has been wired in.
type unconfiguredExchanger struct{}

func (unconfiguredExchanger) Exchange(context.Context, []byte) ([]byte, error) {
	return nil, gwerrors.New(gwerrors.KindBackendTransport, "management.authorize", "token exchanger not configured")
}

// Management serves spec.md §6's four management routes as read-only JSON
// views over the parsed, validated configuration already held in memory,
// plus the /authorize seam. It is meant to run behind a pipeline with zero
// backends: Postprocess fills in the body the backend step left empty.
type Management struct {
	base
	config    *gatewayconfig.Config
	exchanger TokenExchanger
}

// NewManagement builds a Management Service named name, serving views over
// cfg. A nil exchanger falls back to unconfiguredExchanger.
func NewManagement(name string, cfg *gatewayconfig.Config, exchanger TokenExchanger) *Management {
	if exchanger == nil {
		exchanger = unconfiguredExchanger{}
	}
	return &Management{base: base{name: name}, config: cfg, exchanger: exchanger}
}

func (s *Management) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	return buildHTTPLikeEnvelope(protoCtx, true)
}

func (s *Management) Postprocess(ctx context.Context, req *envelope.RequestEnvelope[[]byte], resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	route := strings.TrimSuffix(req.RequestDetails.URI, "/")

	switch {
	case strings.HasSuffix(route, "/info"):
		return s.renderJSON(resp, map[string]any{
			"proxy_id":  s.config.Proxy.ID,
			"log_level": s.config.Proxy.LogLevel,
			"networks":  len(s.config.Network),
		})
	case strings.HasSuffix(route, "/pipelines"):
		return s.renderJSON(resp, s.config.Pipelines)
	case strings.HasSuffix(route, "/routes"):
		return s.renderJSON(resp, s.config.Endpoints)
	case strings.HasSuffix(route, "/authorize"):
		token, err := s.exchanger.Exchange(ctx, req.OriginalData)
		if err != nil {
			return nil, err
		}
		resp.OriginalData = token
		resp.ResponseDetails.Status = 200
		return resp, nil
	default:
		return nil, gwerrors.New(gwerrors.KindNotFound, "management", "unknown management route: "+route)
	}
}

func (s *Management) renderJSON(resp *envelope.ResponseEnvelope[[]byte], body any) (*envelope.ResponseEnvelope[[]byte], error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindInternal, "management", "failed to render view", err)
	}
	resp.OriginalData = encoded
	resp.NormalizedData = body
	resp.ResponseDetails.Status = 200
	resp.ResponseDetails.Headers["content-type"] = "application/json"
	return resp, nil
}

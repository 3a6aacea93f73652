package client

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

const (
	authFactorsPath    = "/auth/factors"
	authChallengesPath = "/auth/challenges"
)

// MFAClient implements workos.MFAClient.
type MFAClient struct {
	httpClient *http.Client
}

// NewMFAClient creates a new MFA client.
func NewMFAClient(httpClient *http.Client) *MFAClient {
	return &MFAClient{
		httpClient: httpClient,
	}
}

// EnrollFactor implements workos.MFAClient.EnrollFactor.
func (c *MFAClient) EnrollFactor(ctx context.Context, params *workos.EnrollFactorParams) (*workos.AuthenticationFactor, error) {
	err := requireParams(params, "enrolling factor")
	if err != nil {
		return nil, err
	}

	return doJSON[workos.AuthenticationFactor](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   authFactorsPath + "/enroll",
		Body:   params,
	}, "enrolling factor")
}

// ChallengeFactor implements workos.MFAClient.ChallengeFactor.
func (c *MFAClient) ChallengeFactor(
	ctx context.Context,
	factorID string,
	params *workos.ChallengeFactorParams,
) (*workos.AuthenticationChallenge, error) {
	if params == nil {
		params = &workos.ChallengeFactorParams{}
	}

	return doJSON[workos.AuthenticationChallenge](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   resourcePath(authFactorsPath, factorID, "challenge"),
		Body:   params,
	}, "challenging factor")
}

// VerifyChallenge implements workos.MFAClient.VerifyChallenge.
func (c *MFAClient) VerifyChallenge(ctx context.Context, challengeID string, code string) (*workos.VerifyChallengeResponse, error) {
	return doJSON[workos.VerifyChallengeResponse](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   resourcePath(authChallengesPath, challengeID, "verify"),
		Body:   map[string]string{"code": code},
	}, "verifying challenge")
}

// GetFactor implements workos.MFAClient.GetFactor.
func (c *MFAClient) GetFactor(ctx context.Context, id string) (*workos.AuthenticationFactor, error) {
	return doJSON[workos.AuthenticationFactor](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath(authFactorsPath, id),
	}, "getting factor")
}

// DeleteFactor implements workos.MFAClient.DeleteFactor.
func (c *MFAClient) DeleteFactor(ctx context.Context, id string) error {
	return doEmpty(ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   resourcePath(authFactorsPath, id),
	}, "deleting factor")
}

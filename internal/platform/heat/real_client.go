package heat

import (
	"context"
	"fmt"
	"time"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"
	"github.com/gophercloud/gophercloud/v2/openstack/orchestration/v1/stacks"

	"github.com/imamik/baystack/internal/bay"
)

// CallObserver is notified after every Heat API call.
type CallObserver func(operation string, duration time.Duration, err error)

// RealClient implements Orchestrator against a Heat endpoint.
type RealClient struct {
	client  *gophercloud.ServiceClient
	observe CallObserver
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithCallObserver installs a hook that sees every API call.
func WithCallObserver(o CallObserver) ClientOption {
	return func(c *RealClient) {
		c.observe = o
	}
}

// NewRealClient authenticates against Keystone using the OS_* environment
// variables and returns a client for the orchestration endpoint in region.
func NewRealClient(ctx context.Context, region string, opts ...ClientOption) (*RealClient, error) {
	authOpts, err := openstack.AuthOptionsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenStack credentials: %w", err)
	}
	authOpts.AllowReauth = true

	provider, err := openstack.AuthenticatedClient(ctx, authOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with OpenStack: %w", err)
	}

	sc, err := openstack.NewOrchestrationV1(provider, gophercloud.EndpointOpts{Region: region})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestration client: %w", err)
	}

	return NewFromServiceClient(sc, opts...), nil
}

// NewFromServiceClient wraps an existing service client. Tests use it with
// a client pointed at an httptest server.
func NewFromServiceClient(sc *gophercloud.ServiceClient, opts ...ClientOption) *RealClient {
	c := &RealClient{client: sc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createRequest struct {
	StackName   string            `json:"stack_name"`
	Template    string            `json:"template"`
	Files       map[string]string `json:"files,omitempty"`
	Parameters  map[string]any    `json:"parameters,omitempty"`
	TimeoutMins *int              `json:"timeout_mins,omitempty"`
}

type updateRequest struct {
	Template   string            `json:"template"`
	Files      map[string]string `json:"files,omitempty"`
	Parameters map[string]any    `json:"parameters,omitempty"`
}

type createResponse struct {
	Stack struct {
		ID string `json:"id"`
	} `json:"stack"`
}

// CreateStack submits a stack create and returns the new stack id.
func (c *RealClient) CreateStack(ctx context.Context, opts CreateOpts) (id string, err error) {
	defer c.track("create", time.Now(), &err)

	body := createRequest{
		StackName:  opts.Name,
		Template:   opts.Template,
		Files:      opts.Files,
		Parameters: opts.Parameters,
	}
	if opts.TimeoutMinutes != nil && *opts.TimeoutMinutes > 0 {
		body.TimeoutMins = opts.TimeoutMinutes
	}

	var resp createResponse
	_, err = c.client.Post(ctx, c.client.ServiceURL("stacks"), body, &resp, &gophercloud.RequestOpts{
		OkCodes: []int{201},
	})
	if err != nil {
		return "", classify("create stack "+opts.Name, err)
	}
	if resp.Stack.ID == "" {
		return "", fmt.Errorf("failed to create stack %s: response carries no stack id", opts.Name)
	}
	return resp.Stack.ID, nil
}

// UpdateStack replaces the template, files and parameters of a stack.
func (c *RealClient) UpdateStack(ctx context.Context, opts UpdateOpts) (err error) {
	defer c.track("update", time.Now(), &err)

	current, err := stacks.Find(ctx, c.client, opts.StackID).Extract()
	if err != nil {
		return classify("find stack "+opts.StackID, err)
	}

	body := updateRequest{
		Template:   opts.Template,
		Files:      opts.Files,
		Parameters: opts.Parameters,
	}
	_, err = c.client.Put(ctx, c.client.ServiceURL("stacks", current.Name, current.ID), body, nil, &gophercloud.RequestOpts{
		OkCodes: []int{202},
	})
	return classify("update stack "+opts.StackID, err)
}

// GetStack fetches the current state of a stack.
func (c *RealClient) GetStack(ctx context.Context, stackID string) (s *Stack, err error) {
	defer c.track("get", time.Now(), &err)

	rs, err := stacks.Find(ctx, c.client, stackID).Extract()
	if err != nil {
		return nil, classify("get stack "+stackID, err)
	}
	return fromRetrieved(rs), nil
}

// DeleteStack submits a stack delete.
func (c *RealClient) DeleteStack(ctx context.Context, stackID string) (err error) {
	defer c.track("delete", time.Now(), &err)

	current, err := stacks.Find(ctx, c.client, stackID).Extract()
	if err != nil {
		return classify("find stack "+stackID, err)
	}
	err = stacks.Delete(ctx, c.client, current.Name, current.ID).ExtractErr()
	return classify("delete stack "+stackID, err)
}

func (c *RealClient) track(operation string, start time.Time, err *error) {
	if c.observe != nil {
		c.observe(operation, time.Since(start), *err)
	}
}

func fromRetrieved(rs *stacks.RetrievedStack) *Stack {
	s := &Stack{
		ID:           rs.ID,
		Name:         rs.Name,
		Status:       bay.Status(rs.Status),
		StatusReason: rs.StatusReason,
		Outputs:      make(map[string]any, len(rs.Outputs)),
	}
	if rs.Timeout > 0 {
		timeout := rs.Timeout
		s.TimeoutMinutes = &timeout
	}
	for _, out := range rs.Outputs {
		key, ok := out["output_key"].(string)
		if !ok {
			continue
		}
		s.Outputs[key] = out["output_value"]
	}
	return s
}

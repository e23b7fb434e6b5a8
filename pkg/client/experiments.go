package client

import (
	"context"
	"fmt"
	"net/url"
)

// ExperimentsClient reads the catalog and drives the developer console.
type ExperimentsClient struct {
	client *Client
}

// TestDefinition is one catalog test.
type TestDefinition struct {
	Name          string             `json:"name"`
	Variants      []string           `json:"variants"`
	Weights       []float64          `json:"weights"`
	Aux           map[string]string  `json:"aux,omitempty"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// Distribution is the outcome of a server side selection simulation.
type Distribution struct {
	Test      string             `json:"test"`
	Draws     int                `json:"draws"`
	Counts    map[string]int     `json:"counts"`
	Expected  map[string]float64 `json:"expected"`
	ChiSquare float64            `json:"chi_square"`
	PValue    float64            `json:"p_value"`
}

// Assignments is the visitor's persisted test to variant mapping.
type Assignments struct {
	VisitorID   string            `json:"visitor_id"`
	Assignments map[string]string `json:"assignments"`
}

// Catalog lists the active tests.
func (e *ExperimentsClient) Catalog(ctx context.Context) ([]TestDefinition, error) {
	var resp struct {
		Tests []TestDefinition `json:"tests"`
	}
	if err := e.client.get(ctx, "/api/v1/experiments/catalog", &resp); err != nil {
		return nil, err
	}
	return resp.Tests, nil
}

// Simulate draws n variants of test on the server.
func (e *ExperimentsClient) Simulate(ctx context.Context, test string, n int) (*Distribution, error) {
	var d Distribution
	path := fmt.Sprintf("/api/v1/experiments/catalog/%s/simulate?draws=%d", url.PathEscape(test), n)
	if err := e.client.get(ctx, path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Get returns the current assignment without creating one.
func (e *ExperimentsClient) Get(ctx context.Context) (*Assignments, error) {
	var a Assignments
	if err := e.client.get(ctx, "/api/v1/experiments/assignments", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Set forces test to variant and returns the updated assignment.
func (e *ExperimentsClient) Set(ctx context.Context, test, variant string) (*Assignments, error) {
	var a Assignments
	body := map[string]string{"variant": variant}
	if err := e.client.put(ctx, "/api/v1/experiments/assignments/"+url.PathEscape(test), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Reset clears the assignment.
func (e *ExperimentsClient) Reset(ctx context.Context) error {
	return e.client.delete(ctx, "/api/v1/experiments/assignments")
}

//Personal.AI order the ending

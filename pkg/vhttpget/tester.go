package vhttpget

import (
	"context"
	"fmt"
)

// Tester is a Getter that answers from Responses and records every requested URL
type Tester struct {
	Responses map[string]Response
	Errors    map[string]error

	Requests []string
}

func NewTester(expectations map[string]Response) *Tester {
	return &Tester{Responses: expectations, Errors: map[string]error{}}
}

func (t *Tester) Get(_ context.Context, url string) (*Response, error) {
	t.Requests = append(t.Requests, url)

	if err, ok := t.Errors[url]; ok {
		return nil, err
	}

	res, ok := t.Responses[url]
	if !ok {
		return nil, fmt.Errorf("unexpected input: url=%v", url)
	}

	return &res, nil
}

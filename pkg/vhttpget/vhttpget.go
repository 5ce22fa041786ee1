package vhttpget

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultTimeout bounds a single request, including reading the body
const DefaultTimeout = 30 * time.Second

// MaxBodyBytes is the largest response body Get reads. A longer body is an error.
const MaxBodyBytes = 10 * 1024 * 1024

type Response struct {
	StatusCode int

	// Body is the complete response body
	Body string
}

type Getter interface {
	// Get issues a single GET. Any status code is a Response. Transport failures and bodies over MaxBodyBytes are errors.
	Get(ctx context.Context, url string) (*Response, error)
}

type getter struct {
	client  *http.Client
	maxBody int64
}

func New() Getter {
	client := cleanhttp.DefaultClient()
	client.Timeout = DefaultTimeout
	return NewWithClient(client)
}

func NewWithClient(client *http.Client) Getter {
	return &getter{client: client, maxBody: MaxBodyBytes}
}

func (g *getter) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(io.LimitReader(res.Body, g.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: reading body: %w", url, err)
	}
	if int64(len(body)) > g.maxBody {
		return nil, fmt.Errorf("GET %s: response body exceeds %d bytes", url, g.maxBody)
	}

	return &Response{StatusCode: res.StatusCode, Body: string(body)}, nil
}

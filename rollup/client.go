package rollup

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/oasislabs/oasis-swapper/errors"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/oasislabs/oasis-swapper/metrics"
	"github.com/oasislabs/oasis-swapper/rpc"
	"github.com/oasislabs/oasis-swapper/rw"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	endpointFinish  = "finish"
	endpointNotice  = "notice"
	endpointVoucher = "voucher"
	endpointReport  = "report"
)

// HttpClient is the basic interface for the
// underlying http client used by the Client
type HttpClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Services are services required by the client
type Services struct {
	Logger     log.Logger
	Registerer prometheus.Registerer
}

// Props are the properties that define
// the behaviour of the client
type Props struct {
	// URL is the base url of the rollup http server
	URL string

	// MaxResponseSize is the maximum number of bytes read
	// from a response body
	MaxResponseSize int64
}

// Deps are the required instantiated dependencies
// that a Client requires
type Deps struct {
	Logger  log.Logger
	Client  HttpClient
	Metrics *metrics.ServiceMetrics
}

// NewClient creates a new rollup http server client. No timeout is set on
// the underlying http client, /finish blocks until the server has a request
// to hand out
func NewClient(services *Services, props *Props) *Client {
	return NewClientWithDeps(&Deps{
		Logger:  services.Logger,
		Client:  &http.Client{},
		Metrics: metrics.NewDefaultServiceMetrics(services.Registerer, "swapper_rollup"),
	}, props)
}

// NewClientWithDeps creates a new client using the external
// dependencies provided
func NewClientWithDeps(deps *Deps, props *Props) *Client {
	limit := props.MaxResponseSize
	if limit <= 0 {
		limit = defaultMaxResponseSize
	}

	return &Client{
		url:     strings.TrimSuffix(props.URL, "/"),
		limit:   limit,
		client:  deps.Client,
		logger:  deps.Logger.ForClass("rollup", "Client"),
		metrics: deps.Metrics,
		encoder: rpc.JsonEncoder{},
		decoder: rpc.JsonDecoder{},
	}
}

// Client talks to the rollup http server. It fetches the next
// request and publishes the outputs of the dapp
type Client struct {
	url     string
	limit   int64
	client  HttpClient
	logger  log.Logger
	metrics *metrics.ServiceMetrics
	encoder rpc.JsonEncoder
	decoder rpc.JsonDecoder
}

// Finish reports the status of the previous request and waits for the
// next one. It returns a nil request if the server has nothing pending
func (c *Client) Finish(ctx context.Context, req FinishRequest) (*Request, error) {
	c.logger.Debug(ctx, "sending finish", log.MapFields{
		"call_type": "FinishAttempt",
		"status":    string(req.Status),
	})

	res, err := c.post(ctx, endpointFinish, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	switch res.StatusCode {
	case http.StatusAccepted:
		c.logger.Debug(ctx, "no pending rollup request", log.MapFields{
			"call_type": "FinishNoRequest",
		})
		return nil, nil
	case http.StatusOK:
		var request Request
		if err := c.decoder.DecodeWithLimit(res.Body, &request, rw.ReadLimitProps{
			FailOnExceed: true,
			Limit:        c.limit,
		}); err != nil {
			return nil, errors.New(errors.ErrRollupResponse, err)
		}

		c.logger.Debug(ctx, "received rollup request", log.MapFields{
			"call_type": "FinishSuccess",
		}, &request)
		return &request, nil
	default:
		return nil, errors.New(errors.ErrRollupResponse, c.unexpectedStatus(endpointFinish, res))
	}
}

// Notice publishes a notice with the provided payload
func (c *Client) Notice(ctx context.Context, payload []byte) error {
	return c.publish(ctx, endpointNotice, NoticeRequest{
		Payload: hexutil.Encode(payload),
	})
}

// Voucher publishes a voucher that will call destination
// with the provided payload
func (c *Client) Voucher(ctx context.Context, destination common.Address, payload []byte) error {
	return c.publish(ctx, endpointVoucher, VoucherRequest{
		Address: destination.Hex(),
		Payload: hexutil.Encode(payload),
	})
}

// Report publishes a report with the provided payload
func (c *Client) Report(ctx context.Context, payload []byte) error {
	return c.publish(ctx, endpointReport, ReportRequest{
		Payload: hexutil.Encode(payload),
	})
}

func (c *Client) publish(ctx context.Context, endpoint string, body interface{}) error {
	res, err := c.post(ctx, endpoint, body)
	if err != nil {
		return errors.New(errors.ErrPublishOutput, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		err := c.unexpectedStatus(endpoint, res)
		c.logger.Warn(ctx, "failed to publish output", log.MapFields{
			"call_type":  "PublishFailure",
			"endpoint":   endpoint,
			"statusCode": res.StatusCode,
			"err":        err.Error(),
		})
		return errors.New(errors.ErrPublishOutput, err)
	}

	p, err := rw.ReadAllWithLimit(res.Body, rw.ReadLimitProps{Limit: c.limit})
	if err != nil {
		return errors.New(errors.ErrPublishOutput, err)
	}

	c.logger.Info(ctx, "output published", log.MapFields{
		"call_type":  "PublishSuccess",
		"endpoint":   endpoint,
		"statusCode": res.StatusCode,
		"body":       string(p),
	})
	return nil
}

func (c *Client) unexpectedStatus(endpoint string, res *http.Response) error {
	p, _ := rw.ReadAllWithLimit(res.Body, rw.ReadLimitProps{Limit: 1 << 10})
	return ErrUnexpectedStatus{
		Endpoint:   endpoint,
		StatusCode: res.StatusCode,
		Body:       string(p),
	}
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}) (*http.Response, error) {
	buffer, err := rpc.EncodeToBuffer(c.encoder, body)
	if err != nil {
		return nil, errors.New(errors.ErrRollupRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s", c.url, endpoint), buffer)
	if err != nil {
		return nil, errors.New(errors.ErrRollupRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	timer := c.metrics.RequestTimer(endpoint)
	defer timer.ObserveDuration()

	res, err := c.client.Do(req)
	if err != nil {
		c.metrics.RequestCounter(endpoint, "fail", "transport").Inc()
		c.logger.Warn(ctx, "failed to reach rollup http server", log.MapFields{
			"call_type": "RequestFailure",
			"endpoint":  endpoint,
			"err":       err.Error(),
		})
		return nil, errors.New(errors.ErrRollupRequest, err)
	}

	status := "success"
	if res.StatusCode >= 300 {
		status = "fail"
	}
	c.metrics.RequestCounter(endpoint, status, strconv.Itoa(res.StatusCode)).Inc()
	return res, nil
}

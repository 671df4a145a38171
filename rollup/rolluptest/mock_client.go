package rolluptest

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/rollup"
	"github.com/stretchr/testify/mock"
)

// MockClient mocks the rollup http server client
type MockClient struct {
	mock.Mock
}

func (c *MockClient) Finish(ctx context.Context, req rollup.FinishRequest) (*rollup.Request, error) {
	args := c.Called(ctx, req)
	if args.Get(1) != nil {
		return nil, args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, nil
	}

	return args.Get(0).(*rollup.Request), nil
}

func (c *MockClient) Notice(ctx context.Context, payload []byte) error {
	args := c.Called(ctx, payload)
	return args.Error(0)
}

func (c *MockClient) Voucher(ctx context.Context, destination common.Address, payload []byte) error {
	args := c.Called(ctx, destination, payload)
	return args.Error(0)
}

func (c *MockClient) Report(ctx context.Context, payload []byte) error {
	args := c.Called(ctx, payload)
	return args.Error(0)
}

package solana

import (
	"crypto/ed25519"
	"encoding/base64"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005

	// getMultipleAccounts rejects requests for more keys than this
	maxMultipleAccounts = 100
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

const (
	confirmationStatusProcessed = "processed"
	confirmationStatusConfirmed = "confirmed"
	confirmationStatusFinalized = "finalized"
)

var (
	CommitmentProcessed = Commitment{Commitment: confirmationStatusProcessed}
	CommitmentConfirmed = Commitment{Commitment: confirmationStatusConfirmed}
	CommitmentFinalized = Commitment{Commitment: confirmationStatusFinalized}
)

// CommitmentFromString maps a commitment level name to a Commitment. Unknown
// names resolve to CommitmentFinalized.
func CommitmentFromString(level string) Commitment {
	switch level {
	case confirmationStatusProcessed:
		return CommitmentProcessed
	case confirmationStatusConfirmed:
		return CommitmentConfirmed
	default:
		return CommitmentFinalized
	}
}

var (
	ErrNoAccountInfo      = errors.New("no account info")
	ErrTooManyAccounts    = errors.New("too many accounts requested")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Client provides the subset of the Solana JSON RPC API needed to read
// program state ahead of submitting instructions.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(ed25519.PublicKey, Commitment) (AccountInfo, error)
	GetMultipleAccounts([]ed25519.PublicKey, Commitment) ([]*AccountInfo, error)
}

type rpcAccount struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
}

type rpcConfig struct {
	Commitment string `json:"commitment"`
	Encoding   string `json:"encoding"`
}

type client struct {
	log    *logrus.Entry
	client jsonrpc.RPCClient
}

// New returns a client using the specified endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return &client{
		log:    logrus.StandardLogger().WithField("type", "solana/client"),
		client: jsonrpc.NewClientWithOpts(endpoint, opts),
	}
}

func (c *client) call(out interface{}, method string, params ...interface{}) error {
	err := c.client.CallFor(out, method, params...)
	if err == nil {
		return nil
	}

	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}
	if rpcErr.Code == 429 {
		c.log.WithField("method", method).Warn("rate limited")
		return ErrRateLimited
	}
	if rpcErr.Code >= 500 || rpcErr.Code == rpcNodeUnhealthyCode {
		return ErrServiceUnavailable
	}
	return err
}

func (c *client) GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (AccountInfo, error) {
	type rpcResponse struct {
		Value *rpcAccount `json:"value"`
	}

	var resp rpcResponse
	err := c.call(&resp, "getAccountInfo", base58.Encode(account), rpcConfig{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	})
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return AccountInfo{}, ErrNoAccountInfo
	}

	info, err := resp.Value.toAccountInfo(account)
	if err != nil {
		return AccountInfo{}, err
	}
	return *info, nil
}

// GetMultipleAccounts returns the accounts in the same order they were
// requested. Accounts that do not exist are returned as nil entries.
func (c *client) GetMultipleAccounts(accounts []ed25519.PublicKey, commitment Commitment) ([]*AccountInfo, error) {
	if len(accounts) > maxMultipleAccounts {
		return nil, ErrTooManyAccounts
	}

	type rpcResponse struct {
		Value []*rpcAccount `json:"value"`
	}

	encoded := make([]string, len(accounts))
	for i, account := range accounts {
		encoded[i] = base58.Encode(account)
	}

	var resp rpcResponse
	err := c.call(&resp, "getMultipleAccounts", encoded, rpcConfig{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	})
	if err != nil {
		return nil, errors.Wrap(err, "getMultipleAccounts() failed to send request")
	}

	if len(resp.Value) != len(accounts) {
		return nil, errors.Errorf("unexpected number of accounts in response: %d", len(resp.Value))
	}

	infos := make([]*AccountInfo, len(accounts))
	for i, value := range resp.Value {
		if value == nil {
			continue
		}

		infos[i], err = value.toAccountInfo(accounts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid account at index %d", i)
		}
	}
	return infos, nil
}

func (a *rpcAccount) toAccountInfo(key ed25519.PublicKey) (*AccountInfo, error) {
	owner, err := base58.Decode(a.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base58 encoded owner")
	}

	if len(a.Data) == 0 {
		return nil, errors.New("missing account data")
	}

	data, err := base64.StdEncoding.DecodeString(a.Data[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 encoded data")
	}

	return &AccountInfo{
		Key:        key,
		Owner:      owner,
		Lamports:   a.Lamports,
		Data:       data,
		Executable: a.Executable,
	}, nil
}

package deployment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Generated config keys written by the deploy script.
const (
	EnvContractAddress = "CONTRACT_ADDRESS"
	EnvDeployerAddress = "DEPLOYER_ADDRESS"
	EnvChainID         = "NETWORK_CHAIN_ID"
)

// Source yields a candidate descriptor. Any error means "nothing here".
type Source interface {
	Name() string
	Load(ctx context.Context) (*Descriptor, error)
}

// --- HTTP ---

// HTTPSource fetches the descriptor file served next to the front end.
type HTTPSource struct {
	URL    string
	client *http.Client
}

// NewHTTPSource creates a source for url with a short request timeout.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{URL: url, client: &http.Client{Timeout: 5 * time.Second}}
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Load(ctx context.Context) (*Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching deployment info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching deployment info: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading deployment info: %w", err)
	}
	return decode(body)
}

// --- file ---

// FileSource reads a deployment-info.json from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Load(_ context.Context) (*Descriptor, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return decode(data)
}

// --- generated dotenv config ---

// EnvConfigSource reads the dotenv file the deploy script generates. It only
// carries the addresses and chain id, so the rest of the descriptor is blank.
type EnvConfigSource struct {
	Path string
}

func (s EnvConfigSource) Name() string { return s.Path }

func (s EnvConfigSource) Load(_ context.Context) (*Descriptor, error) {
	env, err := godotenv.Read(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	d := &Descriptor{
		ContractAddress: env[EnvContractAddress],
		DeployerAddress: env[EnvDeployerAddress],
		Network:         "localhost",
		ABI:             []string{},
	}
	if raw := env[EnvChainID]; raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvChainID, err)
		}
		d.ChainID = id
	}
	return d, nil
}

// WriteEnvConfig writes d in the generated dotenv format read by EnvConfigSource.
func WriteEnvConfig(path string, d *Descriptor) error {
	return godotenv.Write(map[string]string{
		EnvContractAddress: d.ContractAddress,
		EnvDeployerAddress: d.DeployerAddress,
		EnvChainID:         strconv.FormatInt(d.ChainID, 10),
	}, path)
}

func decode(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing deployment info: %w", err)
	}
	return &d, nil
}

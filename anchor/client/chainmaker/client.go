package chainmaker

import (
	"context"
	"fmt"
	"log"
	"time"

	"claimtrace/anchor/types"
	"claimtrace/config"

	"chainmaker.org/chainmaker/pb-go/v2/common"
	sdk "chainmaker.org/chainmaker/sdk-go/v2"
)

// Client is the wrapper around the ChainMaker SDK client
type Client struct {
	sdkClient sdk.ChainClient
	cfg       *config.AnchorConfig
	logger    *log.Logger
}

// NewChainMakerClient initializes the ChainMaker SDK client with the combined configuration
func NewChainMakerClient(cfg *config.AnchorConfig, logger *log.Logger) (*Client, error) {
	logger.Println("Initializing ChainMaker SDK client using builder pattern...")

	// Extract ChainMaker-specific configuration
	chainmakerCfg, ok := cfg.ProviderSpecific.(*ChainMakerConfig)
	if !ok {
		return nil, fmt.Errorf("invalid ChainMaker configuration type")
	}

	var clientOptions []sdk.ChainClientOption
	clientOptions = append(clientOptions, sdk.WithChainClientOrgId(chainmakerCfg.OrgID))
	clientOptions = append(clientOptions, sdk.WithChainClientChainId(chainmakerCfg.ChainID))
	clientOptions = append(clientOptions, sdk.WithUserKeyFilePath(chainmakerCfg.UserKeyPath))
	clientOptions = append(clientOptions, sdk.WithUserCrtFilePath(chainmakerCfg.UserCertPath))
	clientOptions = append(clientOptions, sdk.WithUserSignKeyFilePath(chainmakerCfg.UserSignKeyPath))
	clientOptions = append(clientOptions, sdk.WithUserSignCrtFilePath(chainmakerCfg.UserSignCertPath))

	if len(chainmakerCfg.Nodes) == 0 {
		return nil, fmt.Errorf("no node configurations provided in config")
	}
	for _, nodeCfg := range chainmakerCfg.Nodes {
		if nodeCfg.UseTLS && len(nodeCfg.CaPaths) == 0 {
			return nil, fmt.Errorf("node %s has TLS enabled but no CaPaths provided", nodeCfg.Address)
		}
		sdkNodeConfig := sdk.NewNodeConfig(
			sdk.WithNodeAddr(nodeCfg.Address),
			sdk.WithNodeConnCnt(nodeCfg.ConnCount),
			sdk.WithNodeUseTLS(nodeCfg.UseTLS),
			sdk.WithNodeCAPaths(nodeCfg.CaPaths),
			sdk.WithNodeTLSHostName(nodeCfg.TLSHostName),
		)
		clientOptions = append(clientOptions, sdk.AddChainClientNodeConfig(sdkNodeConfig))
	}

	// Apply common configuration (retry, timeout, etc.)
	if cfg.RetryLimit > 0 {
		clientOptions = append(clientOptions, sdk.WithRetryLimit(cfg.RetryLimit))
	}
	if cfg.RetryInterval > 0 {
		clientOptions = append(clientOptions, sdk.WithRetryInterval(cfg.RetryInterval))
	}

	client, err := sdk.NewChainClient(clientOptions...)
	if err != nil {
		logger.Printf("Failed to build ChainMaker SDK client: %v\n", err)
		return nil, err
	}

	err = client.EnableCertHash()
	if err != nil {
		logger.Printf("Warning: Failed to enable cert hash: %v\n", err)
	}

	logger.Println("ChainMaker SDK client initialized successfully.")

	return &Client{
		sdkClient: *client,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// NewChainMakerClientFromFile initializes the ChainMaker SDK client directly from a configuration file path
func NewChainMakerClientFromFile(configPath string, logger *log.Logger) (*Client, error) {
	// Load ChainMaker-specific config
	chainmakerCfg, err := LoadChainMakerConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ChainMaker config from file '%s': %w", configPath, err)
	}

	// Create a wrapper anchor config
	anchorCfg := &config.AnchorConfig{
		Provider:         "chainmaker",
		ProviderSpecific: chainmakerCfg,
		// Use defaults for common settings
		RetryLimit:     20,
		RetryInterval:  500,
		TimeoutSeconds: 15,
	}

	return NewChainMakerClient(anchorCfg, logger)
}

// Config returns the configuration associated with the client.
func (c *Client) Config() any {
	if c.cfg == nil || c.cfg.ProviderSpecific == nil {
		log.Println("Warning: Accessing client config before initialization.")
		return &ChainMakerConfig{} // Return empty config to avoid nil pointer panic
	}
	return c.cfg.ProviderSpecific
}

// Close stops the SDK client
func (c *Client) Close() error {
	c.logger.Println("Closing ChainMaker SDK client...")
	if err := c.sdkClient.Stop(); err != nil {
		c.logger.Printf("Error stopping ChainMaker SDK client: %v", err)
		return fmt.Errorf("failed to stop ChainMaker SDK client: %w", err)
	}
	return nil
}

func (c *Client) chainCfg() *ChainMakerConfig {
	return c.cfg.ProviderSpecific.(*ChainMakerConfig)
}

// SubmitRoot anchors a batch Merkle root in a single contract transaction
func (c *Client) SubmitRoot(ctx context.Context, root, anchoredType, tenantID, timestamp string) (*types.Proof, error) {
	if root == "" {
		return nil, fmt.Errorf("root cannot be empty")
	}
	chainCfg := c.chainCfg()
	if chainCfg.SubmitRootMethodName == "" || chainCfg.ParamKeyRoot == "" {
		return nil, fmt.Errorf("anchor contract method configuration fields not set in config")
	}

	kvs := []*common.KeyValuePair{
		{Key: chainCfg.ParamKeyRoot, Value: []byte(root)},
		{Key: chainCfg.ParamKeyAnchoredType, Value: []byte(anchoredType)},
		{Key: chainCfg.ParamKeyTenantID, Value: []byte(tenantID)},
		{Key: chainCfg.ParamKeyTimestamp, Value: []byte(timestamp)},
	}

	_, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := c.sdkClient.InvokeContract(
		chainCfg.ContractName,
		chainCfg.SubmitRootMethodName,
		"",
		kvs,
		-1,
		true,
	)
	if err != nil {
		return nil, fmt.Errorf("SDK invoke failed: %w", err)
	}
	if resp.Code != common.TxStatusCode_SUCCESS {
		return nil, fmt.Errorf("contract execution failed: %s (code: %d)", resp.Message, resp.Code)
	}
	if resp.ContractResult == nil {
		return nil, fmt.Errorf("contract execution returned nil result (tx: %s)", resp.TxId)
	}

	returnedRoot := string(resp.ContractResult.Result)
	if returnedRoot != root {
		return nil, fmt.Errorf("contract returned root '%s' does not match sent root '%s'", returnedRoot, root)
	}

	return &types.Proof{TransactionID: resp.TxId, BlockHeight: resp.TxBlockHeight, Root: returnedRoot}, nil
}

// FindRoot queries the contract for a previously anchored root
func (c *Client) FindRoot(ctx context.Context, root string) (string, error) {
	chainCfg := c.chainCfg()
	_, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	kvs := []*common.KeyValuePair{{Key: chainCfg.ParamKeyRoot, Value: []byte(root)}}
	resp, err := c.sdkClient.QueryContract(chainCfg.ContractName, chainCfg.FindRootMethodName, kvs, -1)
	if err != nil {
		return "", fmt.Errorf("SDK query failed: %w", err)
	}
	if resp.Code != common.TxStatusCode_SUCCESS {
		return "", fmt.Errorf("contract query failed: %s (code: %d)", resp.Message, resp.Code)
	}
	return string(resp.ContractResult.Result), nil
}

// AuditByTxID performs the on-chain public audit by querying transaction details
func (c *Client) AuditByTxID(ctx context.Context, txID string) (*types.AuditData, error) {
	if txID == "" {
		return nil, fmt.Errorf("transaction hash cannot be empty")
	}
	txInfo, err := c.sdkClient.GetTxByTxId(txID)
	if err != nil {
		return nil, fmt.Errorf("SDK get transaction failed: %w", err)
	}
	if txInfo == nil || txInfo.Transaction == nil || txInfo.Transaction.Result == nil || txInfo.Transaction.Result.ContractResult == nil {
		return nil, fmt.Errorf("transaction data is incomplete or nil for tx: %s", txID)
	}
	if txInfo.Transaction.Result.Code != common.TxStatusCode_SUCCESS {
		return nil, fmt.Errorf("transaction execution failed: %s", txInfo.Transaction.Result.Message)
	}
	events := txInfo.Transaction.Result.ContractResult.ContractEvent
	for _, event := range events {
		if event.Topic == c.chainCfg().AnchorEventTopic {
			eventData := event.EventData
			if len(eventData) != 3 {
				return nil, fmt.Errorf("malformed event data: expected 3 fields, got %d", len(eventData))
			}
			auditData := &types.AuditData{Root: eventData[0], SubmitterTenant: eventData[1], Timestamp: eventData[2]}
			return auditData, nil
		}
	}
	return nil, fmt.Errorf("event '%s' not found in transaction %s", c.chainCfg().AnchorEventTopic, txID)
}

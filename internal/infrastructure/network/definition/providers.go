package networkdefinition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		DisplayName:      "Ethereum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		BlockExplorerURL: "https://etherscan.io",
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia Testnet",
		Identifier:       "sepolia",
		DisplayName:      "Sepolia Testnet",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://ethereum-sepolia-rpc.publicnode.com",
		BlockExplorerURL: "https://sepolia.etherscan.io",
		Testnet:          true,
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		DisplayName:      "BNB Chain",
		NativeSymbol:     "BNB",
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		BlockExplorerURL: "https://bscscan.com",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		DisplayName:      "Polygon",
		NativeSymbol:     "POL",
		Decimals:         18,
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		BlockExplorerURL: "https://polygonscan.com",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		DisplayName:      "Arbitrum One",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		BlockExplorerURL: "https://arbiscan.io",
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		DisplayName:      "Avalanche C-Chain",
		NativeSymbol:     "AVAX",
		Decimals:         18,
		PrimaryRPCURL:    "https://api.avax.network/ext/bc/C/rpc",
		BlockExplorerURL: "https://snowtrace.io",
	}
	Fuji = entity.NetworkDefinition{
		ChainID:          43113, // 0xa869
		Name:             "Avalanche Fuji Testnet",
		Identifier:       "fuji",
		DisplayName:      "Fuji Testnet",
		NativeSymbol:     "AVAX",
		Decimals:         18,
		PrimaryRPCURL:    "https://api.avax-test.network/ext/bc/C/rpc",
		BlockExplorerURL: "https://testnet.snowtrace.io",
		Testnet:          true,
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base",
		DisplayName:      "Base",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/base",
		BlockExplorerURL: "https://basescan.org",
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		DisplayName:      "OP Mainnet",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://optimism.publicnode.com",
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Ethereum.Identifier:  Ethereum,
	Sepolia.Identifier:   Sepolia,
	BSC.Identifier:       BSC,
	Polygon.Identifier:   Polygon,
	Arbitrum.Identifier:  Arbitrum,
	Avalanche.Identifier: Avalanche,
	Fuji.Identifier:      Fuji,
	Base.Identifier:      Base,
	Optimism.Identifier:  Optimism,
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
func NewNetworkDefinitionProvider(log port.Logger) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: allKnownDefinitions,
	}
	p.logger.Debug(fmt.Sprintf("NetworkDefinitionProvider initialized. Known networks: %d", len(p.allNetworkDefs)))
	return p
}

// GetAllNetworkDefinitions returns the known network definitions sorted by chain id.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.allNetworkDefs))
	for _, def := range p.allNetworkDefs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[strings.ToLower(strings.TrimSpace(identifier))]
	return def, ok
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allNetworkDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// Resolve accepts an identifier ("fuji"), a decimal chain id ("43113") or a hex chain id
// ("0xa869") and returns the matching definition.
func (p *NetworkDefinitionProvider) Resolve(ref string) (entity.NetworkDefinition, error) {
	ref = strings.TrimSpace(ref)
	if def, ok := p.GetNetworkDefinitionByName(ref); ok {
		return def, nil
	}

	var (
		chainID uint64
		err     error
	)
	if strings.HasPrefix(strings.ToLower(ref), "0x") {
		chainID, err = strconv.ParseUint(ref[2:], 16, 64)
	} else {
		chainID, err = strconv.ParseUint(ref, 10, 64)
	}
	if err != nil {
		return entity.NetworkDefinition{}, fmt.Errorf("unknown network %q", ref)
	}
	if def, ok := p.GetNetworkDefinitionByChainID(chainID); ok {
		return def, nil
	}
	p.logger.Warn(fmt.Sprintf("Network with ChainID %d is not in the known definitions.", chainID))
	return entity.NetworkDefinition{}, fmt.Errorf("unknown network %q", ref)
}

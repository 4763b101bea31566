package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64 `json:"chainId" yaml:"chainId"`
	Name             string `json:"name" yaml:"name"`
	Identifier       string `json:"identifier" yaml:"identifier"`   // Уникальный идентификатор сети (например, "fuji", "avalanche")
	DisplayName      string `json:"displayName" yaml:"displayName"` // Текст бейджа сети в карточке кошелька
	NativeSymbol     string `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         uint8  `json:"decimals" yaml:"decimals"` // Количество десятичных знаков для нативного токена
	PrimaryRPCURL    string `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	Testnet          bool   `json:"testnet" yaml:"testnet"`
}

package entity

// Placeholder is displayed in empty address, network and balance fields.
const Placeholder = "—"

// Button labels of the connect button.
const (
	ButtonConnect    = "Connect Wallet"
	ButtonConnecting = "Connecting"
	ButtonConnected  = "✓ Connected"
)

// Field texts shared by both frontends.
const (
	NetworkWrongText  = "Wrong Network"
	BalanceErrorText  = "Error"
	AddressCopiedText = "Copied!"
)

// WalletView is a snapshot of everything the wallet card displays.
type WalletView struct {
	State          ConnectionState `json:"state" yaml:"state"`
	Status         string          `json:"status" yaml:"status"`
	StatusClass    string          `json:"statusClass" yaml:"statusClass"`
	ButtonText     string          `json:"buttonText" yaml:"buttonText"`
	ButtonDisabled bool            `json:"buttonDisabled" yaml:"buttonDisabled"`
	Address        string          `json:"address" yaml:"address"`
	AddressFull    string          `json:"addressFull,omitempty" yaml:"addressFull,omitempty"`
	Network        string          `json:"network" yaml:"network"`
	NetworkCorrect bool            `json:"networkCorrect" yaml:"networkCorrect"`
	ChainID        string          `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Balance        string          `json:"balance" yaml:"balance"`
	Banner         string          `json:"banner,omitempty" yaml:"banner,omitempty"`
	BannerVisible  bool            `json:"bannerVisible" yaml:"bannerVisible"`
}

// NewDisconnectedView returns the view of a page that has not connected yet.
func NewDisconnectedView() WalletView {
	return WalletView{
		State:       StateDisconnected,
		Status:      StateDisconnected.String(),
		StatusClass: StateDisconnected.BadgeClass(),
		ButtonText:  ButtonConnect,
		Address:     Placeholder,
		Network:     Placeholder,
		Balance:     Placeholder,
	}
}

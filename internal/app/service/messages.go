package service

// Banner texts shown to the user.
const (
	msgProviderMissing  = "%s not detected. Please install %s extension."
	msgUserRejected     = "Connection rejected. Please approve the connection request."
	msgConnectFailed    = "Failed to connect wallet. Please try again."
	msgSwitchOnConnect  = "Please switch to %s in your wallet."
	msgSwitchOnChange   = "Please switch to %s."
	msgWalletDisconnect = "Wallet disconnected."
)

// Flash slots.
const (
	slotBanner = "banner"
	slotCopied = "copied"
)

package restapi

import (
	"errors"
	"net/http"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// APICopyResponse is returned by the copy endpoint.
type APICopyResponse struct {
	Copied bool              `json:"copied"`
	View   entity.WalletView `json:"view"`
	Error  string            `json:"error,omitempty"`
}

// APIErrorResponse carries a failure together with the view it left behind.
type APIErrorResponse struct {
	Error string            `json:"error"`
	View  entity.WalletView `json:"view"`
}

// WalletHandler обрабатывает HTTP запросы карточки кошелька.
type WalletHandler struct {
	connector port.WalletConnector
	logger    port.Logger
}

// NewWalletHandler создает новый экземпляр WalletHandler.
func NewWalletHandler(connector port.WalletConnector, logger port.Logger) *WalletHandler {
	return &WalletHandler{
		connector: connector,
		logger:    logger.With("component", "restapi"),
	}
}

// GetWalletHandler returns the current wallet card.
func (h *WalletHandler) GetWalletHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.connector.View())
}

// ConnectHandler runs a connect attempt. Connect failures are part of the view (banner and
// badge), so they still answer 200. Only a missing wallet is reported as 503.
func (h *WalletHandler) ConnectHandler(c *gin.Context) {
	view, err := h.connector.Connect(c.Request.Context())
	if errors.Is(err, entity.ErrProviderMissing) {
		c.JSON(http.StatusServiceUnavailable, APIErrorResponse{Error: err.Error(), View: view})
		return
	}
	if err != nil {
		h.logger.Debug("Connect attempt finished with error", "kind", entity.ClassifyError(err).String(), "error", err)
	}
	c.JSON(http.StatusOK, view)
}

// CopyAddressHandler copies the connected address to the clipboard.
func (h *WalletHandler) CopyAddressHandler(c *gin.Context) {
	copied, err := h.connector.CopyAddress(c.Request.Context())
	resp := APICopyResponse{Copied: copied, View: h.connector.View()}
	if err != nil {
		resp.Error = err.Error()
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddressQRHandler renders the full address as a PNG QR code.
func (h *WalletHandler) AddressQRHandler(c *gin.Context) {
	view := h.connector.View()
	if view.AddressFull == "" {
		c.JSON(http.StatusNotFound, APIErrorResponse{Error: "no wallet address connected", View: view})
		return
	}
	png, err := qrcode.Encode(view.AddressFull, qrcode.Medium, qrSize)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: "failed to render QR code", View: view})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetNetworkHandler returns the accepted network.
func (h *WalletHandler) GetNetworkHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.connector.Network())
}

package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions configures the optional parts of the router.
type RouterOptions struct {
	CORSOrigins    []string // empty or "*" allows all origins
	MetricsEnabled bool
	MetricsPath    string
	Gatherer       prometheus.Gatherer // nil serves the default registry
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(walletHandler *WalletHandler, zapLogger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 0 || (len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/wallet", walletHandler.GetWalletHandler)
		v1.POST("/wallet/connect", walletHandler.ConnectHandler)
		v1.POST("/wallet/copy", walletHandler.CopyAddressHandler)
		v1.GET("/wallet/qr", walletHandler.AddressQRHandler)
		v1.GET("/network", walletHandler.GetNetworkHandler)
	}

	if opts.MetricsEnabled {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		handler := promhttp.Handler()
		if opts.Gatherer != nil {
			handler = promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
		}
		router.GET(path, gin.WrapH(handler))
		zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", path))
	}

	return router
}

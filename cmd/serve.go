package cmd

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"verve/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

// serveCmd exposes the recommender over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run Verve as an HTTP API server",
	Long: `Starts an HTTP server exposing the recommendation engine and
run data via a RESTful API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		if serveAddr == "" {
			serveAddr = appInstance.Config.Serve.Addr
		}
		if servePort == "" {
			servePort = appInstance.Config.Serve.Port
		}

		router := gin.Default()
		apiHandler := apihandlers.NewAPIHandler(appInstance)

		v1 := router.Group("/api/v1")
		{
			v1.POST("/recommendations", apiHandler.RecommendHandler)
			v1.GET("/content", apiHandler.ListContentHandler)
			v1.GET("/content/:id", apiHandler.GetContentHandler)
			v1.GET("/runs", apiHandler.ListRunsHandler)
		}

		router.GET("/health", func(c *gin.Context) {
			if err := appInstance.RunStore.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		listenAddr := fmt.Sprintf("%s:%s", serveAddr, servePort)
		log.Infof("Starting Verve API server on http://%s", listenAddr)
		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from config)")
}

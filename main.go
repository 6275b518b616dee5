package main

import (
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/rkataria99/ExpenseApp-backend/auth"
	"github.com/rkataria99/ExpenseApp-backend/config"
	"github.com/rkataria99/ExpenseApp-backend/controllers"
	"github.com/rkataria99/ExpenseApp-backend/events"
	"github.com/rkataria99/ExpenseApp-backend/models"
	"github.com/rkataria99/ExpenseApp-backend/report"
	"github.com/rkataria99/ExpenseApp-backend/tracing"
)

var (
	database = kingpin.Flag("database", "Database file").Short('d').String()
	verbose  = kingpin.Flag("verbose", "Verbosity").Short('v').Bool()
	port     = kingpin.Flag("port", "Port").Short('p').String()
)

func main() {
	kingpin.Parse()
	config.Init()

	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	shutdown, err := tracing.InitTraceProvider("expenseapp")
	if err != nil {
		log.Fatal().Err(err).Msg("Tracing Error")
	}
	defer shutdown()

	dsn := viper.GetString("database.dsn")
	if *database != "" {
		dsn = *database
	}
	if err := models.ConnectDatabase(dsn, *verbose); err != nil {
		log.Fatal().Err(err).Msg("Database Error")
	}

	if url := viper.GetString("amqp.url"); url != "" {
		publisher, err := events.NewPublisher(url, viper.GetString("amqp.exchange"))
		if err != nil {
			log.Fatal().Err(err).Msg("AMQP Error")
		}
		defer publisher.Close()
		controllers.Events = publisher
	}

	listen := viper.GetString("server.port")
	if *port != "" {
		listen = *port
	}

	log.Info().Msgf("Server running on port %s", listen)
	if err := setupServer(*verbose).Run(":" + listen); err != nil {
		log.Fatal().Err(err).Msg("Server Error")
	}
}

func setupServer(debug bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if debug {
		gin.SetMode(gin.DebugMode)
	}

	controllers.Reports = report.NewEngine(models.ReportStore{}, config.Timezone(), config.WeekStart())

	r := gin.New()
	r.Use(otelgin.Middleware("expenseapp"))
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins: config.CORSOrigins(),
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.GET("/healthz/ready", func(c *gin.Context) {
		io.WriteString(c.Writer, "OK\n")
	})

	api := r.Group("/api")

	api.POST("/auth/register", controllers.Register)
	api.POST("/auth/login", controllers.Login)
	api.GET("/auth/me", auth.RequireAuth, controllers.Me)

	authed := api.Group("", auth.RequireAuth)
	authed.POST("/transactions", controllers.CreateTransaction)
	authed.GET("/transactions", controllers.ListTransactions)
	authed.GET("/transactions/totals", controllers.GetTotals)
	authed.DELETE("/transactions/:id", controllers.DeleteTransaction)
	authed.DELETE("/transactions", controllers.ClearTransactions)
	authed.GET("/reports/weekly", controllers.WeeklyReport)
	authed.GET("/reports/monthly", controllers.MonthlyReport)
	authed.GET("/reports/total", controllers.TotalReport)
	authed.GET("/reports/years", controllers.ReportYears)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	}
}

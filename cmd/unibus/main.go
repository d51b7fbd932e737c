package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/config"
	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/handler"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/cache"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/client"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/picker"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/resilience"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/store"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/viacep"
	"github.com/rafisgodoy/unibus-core-go/internal/service"
	"github.com/rafisgodoy/unibus-core-go/internal/session"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_url", cfg.APIBaseURL),
		zap.String("address_api_url", cfg.AddressAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.String("store_path", cfg.StorePath),
		zap.Duration("address_cache_ttl", cfg.AddressCacheTTL),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("debug_port", cfg.DebugPort),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "unibus-core")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Durable store ---
	kv, err := store.Open(cfg.StorePath, cfg.StorePassphrase)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("path", cfg.StorePath), zap.Error(err))
	}

	// --- Cache ---
	addressCache := cache.New[*domain.Address](cfg.AddressCacheTTL)
	defer addressCache.Close()

	// --- Resilience ---
	cb := resilience.NewCircuitBreaker("viacep")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	apiClient := client.NewClient(httpClient, cfg.APIBaseURL, bulkhead, logger)
	addressClient := viacep.NewClient(httpClient, cfg.AddressAPIURL, cb, addressCache, metrics, logger)

	// --- Session ---
	sess := session.New(kv, logger)

	// --- Services ---
	notifier := service.NewNotifier(metrics, logger)
	notifier.OnChange(func(n domain.Notification, visible bool) {
		if visible {
			fmt.Printf("  [%s] %s\n", n.Severity, n.Message)
		}
	})

	// Headless stand-ins for the device surfaces: the permission gate is
	// driven by config, image selection by the `avatar <path>` command.
	gate := picker.NewGate(cfg.MediaPermission)
	alerter := picker.AlertFunc(func(msg string) {
		fmt.Fprintf(os.Stderr, "  ! %s\n", msg)
	})
	images := newImageQueue()
	filePicker := &picker.FileSystem{Source: images.next, Logger: logger}

	avatar := service.NewAvatar(kv, gate, filePicker, apiClient, alerter, notifier, metrics, logger)
	settings := service.NewSettings(kv, apiClient, addressClient, avatar, notifier, metrics, logger)
	contracts := service.NewContracts(kv, apiClient, apiClient, notifier, metrics, logger)

	// --- Debug listener ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.DebugPort),
		Handler:      handler.NewDebugRouter(metrics, sess, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("debug listener starting", zap.Int("port", cfg.DebugPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("debug listener failed", zap.Error(err))
		}
	}()

	// --- Interactive loop ---
	app := &console{
		sess:      sess,
		settings:  settings,
		contracts: contracts,
		images:    images,
		logger:    logger,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.run(context.Background(), os.Stdin)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("debug listener forced shutdown", zap.Error(err))
	}

	logger.Info("stopped")
}

// imageQueue feeds the filesystem picker: `avatar <path>` enqueues the path
// the pipeline should pick next. An empty queue reads as a cancelled pick.
type imageQueue struct {
	paths chan string
}

func newImageQueue() *imageQueue {
	return &imageQueue{paths: make(chan string, 1)}
}

func (q *imageQueue) push(path string) {
	select {
	case q.paths <- path:
	default:
	}
}

func (q *imageQueue) next(_ context.Context) (string, bool) {
	select {
	case path := <-q.paths:
		return path, true
	default:
		return "", false
	}
}

// console is the stdin command loop standing in for screen navigation.
type console struct {
	sess      *session.Session
	settings  *service.Settings
	contracts *service.Contracts
	images    *imageQueue
	logger    *zap.Logger
}

func (c *console) run(ctx context.Context, in *os.File) {
	c.welcome()

	scanner := bufio.NewScanner(in)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "status":
			c.status()
		case "login":
			if arg == "" {
				fmt.Println("uso: login <token>")
				break
			}
			if err := c.sess.SetToken(arg); err != nil {
				fmt.Println("falha ao salvar o token:", err)
				break
			}
			c.welcome()
		case "logout":
			if err := c.sess.Clear(); err != nil {
				fmt.Println("falha ao encerrar a sessão:", err)
				break
			}
			fmt.Println("Sessão encerrada.")
		case "contracts":
			c.contracts.Refresh(ctx)
			c.renderContracts()
		case "settings":
			c.settings.Refresh(ctx)
			c.renderSettings()
		case "avatar":
			if arg == "" {
				fmt.Println("uso: avatar <caminho-da-imagem>")
				break
			}
			c.images.push(arg)
			uri := c.settings.ChangeImage(ctx)
			fmt.Println("Imagem de perfil:", uri)
		case "help":
			c.help()
		case "exit", "quit":
			return
		default:
			fmt.Printf("comando desconhecido: %q (help para a lista)\n", cmd)
		}
		fmt.Print("> ")
	}
}

func (c *console) welcome() {
	if !c.sess.LoggedIn(time.Now()) {
		fmt.Println("Faça o login ou Cadastre-se para começar")
		c.help()
		return
	}
	if claims, err := c.sess.Claims(); err == nil && claims.Subject != "" {
		fmt.Printf("Olá, %s!\n", claims.Subject)
	} else {
		fmt.Println("Olá!")
	}
}

func (c *console) status() {
	if !c.sess.LoggedIn(time.Now()) {
		fmt.Println("Não logado.")
		return
	}
	claims, err := c.sess.Claims()
	if err != nil {
		fmt.Println("Logado (token opaco).")
		return
	}
	fmt.Println("Logado.")
	if claims.Subject != "" {
		fmt.Println("  Usuário:", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		fmt.Println("  Expira em:", claims.ExpiresAt.Format(time.RFC3339))
	}
}

func (c *console) renderContracts() {
	state := c.contracts.Snapshot()

	fmt.Println("--- Contratos ---")
	fmt.Println("Nome:", state.UserName)
	fmt.Println("CPF:", state.UserCPF)
	fmt.Println("Telefone:", state.UserPhone)
	fmt.Println("Email:", state.UserEmail)
	if state.Company != nil {
		fmt.Println("Empresa:", state.Company.Name)
		fmt.Println("  Email:", state.Company.Email)
		fmt.Println("  Telefone:", state.Company.Phone)
	}
	if state.Message != "" {
		fmt.Println(state.Message)
	}
}

func (c *console) renderSettings() {
	state := c.settings.Snapshot()

	fmt.Println("--- Configurações ---")
	fmt.Println("Nome:", state.Name)
	fmt.Println("CPF:", state.CPF)
	fmt.Println("Telefone:", state.Phone)
	fmt.Println("Email:", state.Email)
	fmt.Println("Nascimento:", state.BirthDate)
	fmt.Println("CEP:", state.CEP)
	fmt.Println("UF:", state.State)
	fmt.Println("Cidade:", state.City)
	fmt.Println("Bairro:", state.Neighborhood)
	fmt.Println("Rua:", state.Street)
	fmt.Println("Número:", state.HouseNumber)
	fmt.Println("Imagem:", state.ImageURI)
}

func (c *console) help() {
	fmt.Println("comandos:")
	fmt.Println("  status           estado da sessão")
	fmt.Println("  login <token>    salva o token de acesso")
	fmt.Println("  logout           encerra a sessão")
	fmt.Println("  contracts        tela de contratos")
	fmt.Println("  settings         tela de configurações")
	fmt.Println("  avatar <path>    troca a imagem de perfil")
	fmt.Println("  exit             sair")
}

package deps

import (
	"context"
	"fmt"
	"nudgebot/internal/config"
	dl "nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	duow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	sendreminder "nudgebot/internal/core/services/send_reminder"
	"nudgebot/internal/db"
	dbreminder "nudgebot/internal/db/reminder"
	uow "nudgebot/internal/db/unit_of_work"
	dbuser "nudgebot/internal/db/user"
	"nudgebot/internal/implementations/logging"
	"nudgebot/internal/implementations/notifier"
	occurrenceguard "nudgebot/internal/implementations/occurrence_guard"
	reminderscheduler "nudgebot/internal/implementations/reminder_scheduler"
	remindersender "nudgebot/internal/implementations/reminder_sender"
	"nudgebot/internal/rabbitmq"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB        *pgxpool.Pool
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server

	Now func() time.Time

	UnitOfWork         duow.UnitOfWork
	UserRepository     user.UserRepository
	ReminderRepository reminder.ReminderRepository

	OccurrenceGuard  reminder.OccurrenceGuard
	PrimaryChannel   reminder.PrimaryChannel
	SecondaryChannel reminder.SecondaryChannel

	ReminderScheduler *reminderscheduler.TimerScheduler
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger()
	flushSentry := deps.initSentry()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	closeSseServer := deps.initSseServer()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.ReminderRepository = dbreminder.NewPgxReminderRepository(deps.DB)

	deps.initOccurrenceGuard()
	deps.initPrimaryChannel()
	deps.initSecondaryChannel()
	deps.initReminderScheduler()

	return deps, func() {
		// Pending fires still use the connections below.
		deps.closeReminderScheduler()

		closeFuncs := []func(){
			closeSseServer,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		flushSentry()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.SentryDsn != nil)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != nil {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn.String(),
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}

func (deps *Deps) initPgxPool() func() {
	if err := db.ApplyMigrations(deps.Config.MigrationsPath, deps.Config.PostgresqlURL); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply DB migrations.", dl.Entry("err", err))
		panic(err)
	}

	pool, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		deps.Logger.Info(context.Background(), "Redis is disabled.")
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	if !deps.Config.SseEnabled {
		return func() {}
	}
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initOccurrenceGuard() {
	if deps.Redis != nil {
		deps.OccurrenceGuard = occurrenceguard.NewRedis(deps.Redis, deps.Logger, deps.Config.OccurrenceGuardTTL)
		return
	}
	deps.OccurrenceGuard = occurrenceguard.NewMemory(deps.Config.OccurrenceGuardTTL, deps.Now)
}

// initPrimaryChannel falls back to a channel failing every send, so the
// secondary channel and the store updates keep working without a bot.
func (deps *Deps) initPrimaryChannel() {
	ctx := context.Background()
	switch deps.Config.PrimaryChannel {
	case config.PrimaryChannelEmail:
		deps.PrimaryChannel = remindersender.NewEmailFromConfig(
			deps.initAwsConfig(),
			deps.Config.AwsEmailSender,
			deps.Config.EmailSubject,
		)
	default:
		if deps.Config.TelegramToken == "" {
			deps.Logger.Warning(ctx, "TELEGRAM_TOKEN is not set, primary channel is unavailable.")
			deps.PrimaryChannel = reminder.NewUnavailablePrimaryChannel("telegram")
			return
		}
		bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(deps.Config.TelegramToken, deps.Config.TelegramAPIEndpoint)
		if err != nil {
			deps.Logger.Error(ctx, "Could not initialize Telegram bot.", dl.Entry("err", err))
			deps.PrimaryChannel = reminder.NewUnavailablePrimaryChannel("telegram")
			return
		}
		deps.PrimaryChannel = remindersender.NewTelegram(bot, deps.Config.TelegramRatePerSecond)
	}
	deps.Logger.Info(ctx, "Primary channel is ready.", dl.Entry("channel", deps.PrimaryChannel.Name()))
}

func (deps *Deps) initAwsConfig() aws.Config {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (deps *Deps) initSecondaryChannel() {
	channels := make([]reminder.SecondaryChannel, 0, 3)
	if deps.Config.WebhookURL != "" {
		channels = append(
			channels,
			notifier.NewWebhook(deps.Logger, deps.Config.WebhookURL, deps.Config.WebhookTimeout, deps.Now),
		)
	}
	if deps.Rabbitmq != nil {
		channels = append(channels, deps.initAmqpNotifier())
	}
	if deps.SseServer != nil {
		channels = append(channels, notifier.NewSSE(deps.SseServer, deps.Now))
	}

	if len(channels) == 0 {
		deps.Logger.Warning(context.Background(), "No secondary channel is configured.")
		deps.SecondaryChannel = reminder.NewUnavailableSecondaryChannel()
		return
	}
	deps.SecondaryChannel = notifier.NewMulti(channels...)
}

func (deps *Deps) initAmqpNotifier() reminder.SecondaryChannel {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.DeclareTopicExchange(deps.Config.RabbitmqExchange); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not create RabbitMQ exchange.",
			dl.Entry("err", err),
			dl.Entry("exchange", deps.Config.RabbitmqExchange),
		)
		panic(err)
	}
	return notifier.NewAMQP(deps.Logger, rabbitmqChannel, deps.Config.RabbitmqExchange, deps.Now)
}

func (deps *Deps) initReminderScheduler() {
	sendReminder := sendreminder.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderRepository,
		deps.UserRepository,
		deps.PrimaryChannel,
		deps.SecondaryChannel,
		deps.OccurrenceGuard,
		deps.Now,
	)
	deps.ReminderScheduler = reminderscheduler.New(
		deps.Logger,
		deps.ReminderRepository,
		sendReminder,
		reminderscheduler.RealClock(),
	)
}

func (deps *Deps) closeReminderScheduler() {
	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.ShutdownTimeout)
	defer cancel()
	deps.Logger.Info(ctx, "Shutting down reminder scheduler.", dl.Entry("pending", len(deps.ReminderScheduler.Pending())))
	if err := deps.ReminderScheduler.Close(ctx); err != nil {
		deps.Logger.Warning(ctx, "Reminder scheduler shut down with error.", dl.Entry("err", err))
	}
}

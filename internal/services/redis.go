package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"mines-rewards-backend/internal/config"
	"mines-rewards-backend/internal/models"
)

// RedisService backs every store the engine consumes: wallets, game
// sessions, bias overrides, the operator set, pending credits, transactions
// and rate limits. Wallet mutations run as Lua scripts so a balance check
// and its update are one atomic step.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{client: client}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// --- WalletService ---

var debitScript = redis.NewScript(`
	local walletKey = KEYS[1]
	local dedupKey = KEYS[2]
	local amount = tonumber(ARGV[1])
	local starting = tonumber(ARGV[2])
	local dedupTTL = tonumber(ARGV[3])

	if redis.call("EXISTS", dedupKey) == 1 then
		return "DUP"
	end

	local wallet
	local data = redis.call("GET", walletKey)
	if not data then
		wallet = {player_id = tonumber(ARGV[4]), balance = starting, total_wagered = 0, total_won = 0}
	else
		wallet = cjson.decode(data)
	end

	if wallet.balance < amount then
		return redis.error_reply("insufficient balance")
	end

	wallet.balance = wallet.balance - amount
	wallet.total_wagered = wallet.total_wagered + amount

	redis.call("SET", walletKey, cjson.encode(wallet))
	redis.call("SET", dedupKey, "1", "EX", dedupTTL)

	return "OK"
`)

var creditScript = redis.NewScript(`
	local walletKey = KEYS[1]
	local dedupKey = KEYS[2]
	local amount = tonumber(ARGV[1])
	local starting = tonumber(ARGV[2])
	local dedupTTL = tonumber(ARGV[3])
	local countAsWin = ARGV[5] == "1"

	if redis.call("EXISTS", dedupKey) == 1 then
		return "DUP"
	end

	local wallet
	local data = redis.call("GET", walletKey)
	if not data then
		wallet = {player_id = tonumber(ARGV[4]), balance = starting, total_wagered = 0, total_won = 0}
	else
		wallet = cjson.decode(data)
	end

	wallet.balance = wallet.balance + amount
	if countAsWin then
		wallet.total_won = wallet.total_won + amount
	end

	redis.call("SET", walletKey, cjson.encode(wallet))
	redis.call("SET", dedupKey, "1", "EX", dedupTTL)

	return "OK"
`)

func (s *RedisService) Debit(ctx context.Context, playerID int64, amount int64, idempotencyKey string) error {
	keys := []string{
		fmt.Sprintf(KeyWallet, playerID),
		fmt.Sprintf(KeyWalletDedup, idempotencyKey),
	}
	err := debitScript.Run(ctx, s.client, keys,
		amount, StartingBalance, int(TTLWalletDedup.Seconds()), playerID).Err()
	if err != nil {
		if strings.Contains(err.Error(), "insufficient balance") {
			return fmt.Errorf("%w: need %d", ErrInsufficientFunds, amount)
		}
		return fmt.Errorf("%w: debit: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) Credit(ctx context.Context, playerID int64, amount int64, idempotencyKey string) error {
	countAsWin := "0"
	if strings.HasPrefix(idempotencyKey, "payout:") {
		countAsWin = "1"
	}

	keys := []string{
		fmt.Sprintf(KeyWallet, playerID),
		fmt.Sprintf(KeyWalletDedup, idempotencyKey),
	}
	err := creditScript.Run(ctx, s.client, keys,
		amount, StartingBalance, int(TTLWalletDedup.Seconds()), playerID, countAsWin).Err()
	if err != nil {
		return fmt.Errorf("%w: credit: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) Balance(ctx context.Context, playerID int64) (int64, error) {
	wallet, err := s.GetWallet(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// GetWallet loads the player's wallet, creating it with the starting balance
// on first touch.
func (s *RedisService) GetWallet(ctx context.Context, playerID int64) (*models.Wallet, error) {
	key := fmt.Sprintf(KeyWallet, playerID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		wallet := &models.Wallet{
			PlayerID: playerID,
			Balance:  StartingBalance,
		}
		if err := s.saveWallet(ctx, wallet); err != nil {
			return nil, err
		}
		return wallet, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get wallet: %v", ErrExternalService, err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(data), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %v", err)
	}
	return &wallet, nil
}

func (s *RedisService) saveWallet(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %v", err)
	}
	key := fmt.Sprintf(KeyWallet, wallet.PlayerID)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: save wallet: %v", ErrExternalService, err)
	}
	return nil
}

// --- SessionStore ---

func (s *RedisService) Session(ctx context.Context, sessionID string) (*models.GameSession, error) {
	key := fmt.Sprintf(KeyGameSession, sessionID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %v", ErrExternalService, err)
	}

	var session models.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}
	return &session, nil
}

func (s *RedisService) ActiveSession(ctx context.Context, playerID int64) (*models.GameSession, error) {
	pointerKey := fmt.Sprintf(KeyPlayerActive, playerID)

	sessionID, err := s.client.Get(ctx, pointerKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get active pointer: %v", ErrExternalService, err)
	}

	session, err := s.Session(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		// Dangling pointer to an expired session record.
		s.client.Del(ctx, pointerKey)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		s.client.Del(ctx, pointerKey)
		return nil, nil
	}
	return session, nil
}

// CreateActive claims the player's active slot with SETNX before writing the
// session record, making the one-active-game invariant atomic.
func (s *RedisService) CreateActive(ctx context.Context, session *models.GameSession) error {
	pointerKey := fmt.Sprintf(KeyPlayerActive, session.PlayerID)

	claimed, err := s.client.SetNX(ctx, pointerKey, session.ID, TTLGameSession).Result()
	if err != nil {
		return fmt.Errorf("%w: claim active slot: %v", ErrExternalService, err)
	}
	if !claimed {
		return ErrSessionAlreadyActive
	}

	if err := s.writeSession(ctx, session); err != nil {
		s.client.Del(ctx, pointerKey)
		return err
	}

	if err := s.client.ZAdd(ctx, KeyActiveGames, redis.Z{
		Score:  float64(session.UpdatedAt.Unix()),
		Member: session.ID,
	}).Err(); err != nil {
		return fmt.Errorf("%w: index active game: %v", ErrExternalService, err)
	}

	return nil
}

func (s *RedisService) Update(ctx context.Context, session *models.GameSession) error {
	if err := s.writeSession(ctx, session); err != nil {
		return err
	}
	if err := s.client.ZAdd(ctx, KeyActiveGames, redis.Z{
		Score:  float64(session.UpdatedAt.Unix()),
		Member: session.ID,
	}).Err(); err != nil {
		return fmt.Errorf("%w: index active game: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) Complete(ctx context.Context, session *models.GameSession) error {
	if err := s.writeSession(ctx, session); err != nil {
		return err
	}

	pointerKey := fmt.Sprintf(KeyPlayerActive, session.PlayerID)
	historyKey := fmt.Sprintf(KeyPlayerHistory, session.PlayerID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, pointerKey)
	pipe.ZRem(ctx, KeyActiveGames, session.ID)
	pipe.ZAdd(ctx, historyKey, redis.Z{
		Score:  float64(session.EndedAt.Unix()),
		Member: session.ID,
	})
	pipe.ZRemRangeByRank(ctx, historyKey, 0, int64(-HistoryKeepCount-1))
	pipe.Expire(ctx, historyKey, TTLGameSession)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: archive session: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) ActiveSessionsIdleSince(ctx context.Context, cutoff time.Time) ([]*models.GameSession, error) {
	ids, err := s.client.ZRangeByScore(ctx, KeyActiveGames, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: scan active games: %v", ErrExternalService, err)
	}

	var stale []*models.GameSession
	for _, id := range ids {
		session, err := s.Session(ctx, id)
		if err != nil {
			s.client.ZRem(ctx, KeyActiveGames, id)
			continue
		}
		if session.Status != models.StatusActive {
			s.client.ZRem(ctx, KeyActiveGames, id)
			continue
		}
		stale = append(stale, session)
	}
	return stale, nil
}

func (s *RedisService) writeSession(ctx context.Context, session *models.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}
	key := fmt.Sprintf(KeyGameSession, session.ID)
	if err := s.client.Set(ctx, key, data, TTLGameSession).Err(); err != nil {
		return fmt.Errorf("%w: save session: %v", ErrExternalService, err)
	}
	return nil
}

// --- OverrideStore ---

func (s *RedisService) GetOverride(ctx context.Context, playerID int64) (float64, bool, error) {
	field := strconv.FormatInt(playerID, 10)

	value, err := s.client.HGet(ctx, KeyBiasOverrides, field).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: get override: %v", ErrExternalService, err)
	}

	p, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt override for player %d: %v", playerID, err)
	}
	return p, true, nil
}

func (s *RedisService) SetOverride(ctx context.Context, playerID int64, winProbability float64) error {
	field := strconv.FormatInt(playerID, 10)
	value := strconv.FormatFloat(winProbability, 'f', -1, 64)
	if err := s.client.HSet(ctx, KeyBiasOverrides, field, value).Err(); err != nil {
		return fmt.Errorf("%w: set override: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) DeleteOverride(ctx context.Context, playerID int64) error {
	field := strconv.FormatInt(playerID, 10)
	if err := s.client.HDel(ctx, KeyBiasOverrides, field).Err(); err != nil {
		return fmt.Errorf("%w: delete override: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) ListOverrides(ctx context.Context) ([]models.BiasOverride, error) {
	entries, err := s.client.HGetAll(ctx, KeyBiasOverrides).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list overrides: %v", ErrExternalService, err)
	}

	overrides := make([]models.BiasOverride, 0, len(entries))
	for field, value := range entries {
		playerID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		overrides = append(overrides, models.BiasOverride{
			PlayerID:       playerID,
			WinProbability: p,
		})
	}
	return overrides, nil
}

// --- Authorizer ---

func (s *RedisService) IsAuthorized(ctx context.Context, actorID int64) (bool, error) {
	ok, err := s.client.SIsMember(ctx, KeyOperators, actorID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: operator check: %v", ErrExternalService, err)
	}
	return ok, nil
}

// SeedOperators adds the configured operator IDs to the operator set.
func (s *RedisService) SeedOperators(ctx context.Context, operatorIDs []int64) error {
	if len(operatorIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(operatorIDs))
	for i, id := range operatorIDs {
		members[i] = id
	}
	if err := s.client.SAdd(ctx, KeyOperators, members...).Err(); err != nil {
		return fmt.Errorf("%w: seed operators: %v", ErrExternalService, err)
	}
	return nil
}

// --- CreditQueue ---

func (s *RedisService) EnqueueCredit(ctx context.Context, credit models.PendingCredit) error {
	data, err := json.Marshal(credit)
	if err != nil {
		return fmt.Errorf("failed to marshal pending credit: %v", err)
	}
	if err := s.client.RPush(ctx, KeyPendingCredits, data).Err(); err != nil {
		return fmt.Errorf("%w: enqueue credit: %v", ErrExternalService, err)
	}
	return nil
}

func (s *RedisService) DequeueCredits(ctx context.Context, max int) ([]models.PendingCredit, error) {
	var credits []models.PendingCredit
	for i := 0; i < max; i++ {
		data, err := s.client.LPop(ctx, KeyPendingCredits).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return credits, fmt.Errorf("%w: dequeue credit: %v", ErrExternalService, err)
		}

		var credit models.PendingCredit
		if err := json.Unmarshal([]byte(data), &credit); err != nil {
			continue
		}
		credits = append(credits, credit)
	}
	return credits, nil
}

// --- TransactionLog ---

func (s *RedisService) RecordTransaction(ctx context.Context, tx *models.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %v", err)
	}

	txKey := fmt.Sprintf(KeyTransaction, tx.ID)
	if err := s.client.Set(ctx, txKey, data, TTLTransaction).Err(); err != nil {
		return fmt.Errorf("%w: save transaction: %v", ErrExternalService, err)
	}

	playerTxKey := fmt.Sprintf(KeyPlayerTxs, tx.PlayerID)
	if err := s.client.ZAdd(ctx, playerTxKey, redis.Z{
		Score:  float64(tx.CreatedAt.Unix()),
		Member: tx.ID,
	}).Err(); err != nil {
		return fmt.Errorf("%w: index transaction: %v", ErrExternalService, err)
	}

	s.client.ZRemRangeByRank(ctx, playerTxKey, 0, int64(-HistoryKeepCount-1))
	return nil
}

func (s *RedisService) GetTransactions(ctx context.Context, playerID int64, limit int64) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	playerTxKey := fmt.Sprintf(KeyPlayerTxs, playerID)
	ids, err := s.client.ZRevRange(ctx, playerTxKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: get transaction ids: %v", ErrExternalService, err)
	}

	var transactions []*models.Transaction
	for _, id := range ids {
		data, err := s.client.Get(ctx, fmt.Sprintf(KeyTransaction, id)).Result()
		if err != nil {
			continue
		}
		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}
		transactions = append(transactions, &tx)
	}
	return transactions, nil
}

// --- Game history ---

func (s *RedisService) GetGameHistory(ctx context.Context, playerID int64, limit int64) ([]*models.GameSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	historyKey := fmt.Sprintf(KeyPlayerHistory, playerID)
	ids, err := s.client.ZRevRange(ctx, historyKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: get game history: %v", ErrExternalService, err)
	}

	var games []*models.GameSession
	for _, id := range ids {
		game, err := s.Session(ctx, id)
		if err != nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

// --- User sessions ---

func (s *RedisService) StoreUserSession(ctx context.Context, session *models.UserSession) error {
	key := fmt.Sprintf(KeyUserSession, session.PlayerID, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, TTLUserSession).Err()
}

func (s *RedisService) GetUserSession(ctx context.Context, playerID int64, sessionID string) (*models.UserSession, error) {
	key := fmt.Sprintf(KeyUserSession, playerID, sessionID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	if updated, err := json.Marshal(session); err == nil {
		s.client.Set(ctx, key, updated, TTLUserSession)
	}

	return &session, nil
}

func (s *RedisService) DeleteUserSession(ctx context.Context, playerID int64, sessionID string) error {
	key := fmt.Sprintf(KeyUserSession, playerID, sessionID)
	return s.client.Del(ctx, key).Err()
}

// --- Rate limiting ---

func (s *RedisService) CheckRateLimit(ctx context.Context, playerID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, playerID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}
	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// --- Test helpers ---

func (s *RedisService) DeleteWallet(ctx context.Context, playerID int64) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyWallet, playerID)).Err()
}

func (s *RedisService) DeleteGameSession(ctx context.Context, sessionID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(KeyGameSession, sessionID))
	pipe.ZRem(ctx, KeyActiveGames, sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisService) ClearActivePointer(ctx context.Context, playerID int64) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyPlayerActive, playerID)).Err()
}

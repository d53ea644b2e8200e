package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"mines-rewards-backend/internal/models"
)

// WalletService is the external ledger boundary. Debit and credit carry a
// deduplication key so a retry after a network failure is safe to replay.
// Errors from these calls propagate; they are never treated as success.
type WalletService interface {
	Debit(ctx context.Context, playerID int64, amount int64, idempotencyKey string) error
	Credit(ctx context.Context, playerID int64, amount int64, idempotencyKey string) error
	Balance(ctx context.Context, playerID int64) (int64, error)
}

// SessionStore keeps game sessions keyed by ID with a per-player active
// pointer. CreateActive must fail with ErrSessionAlreadyActive when the
// player already holds a non-terminal session.
type SessionStore interface {
	Session(ctx context.Context, sessionID string) (*models.GameSession, error)
	ActiveSession(ctx context.Context, playerID int64) (*models.GameSession, error)
	CreateActive(ctx context.Context, session *models.GameSession) error
	Update(ctx context.Context, session *models.GameSession) error
	Complete(ctx context.Context, session *models.GameSession) error
	ActiveSessionsIdleSince(ctx context.Context, cutoff time.Time) ([]*models.GameSession, error)
}

// CreditQueue durably parks settlement credits that could not be confirmed,
// so a won game is never silently dropped.
type CreditQueue interface {
	EnqueueCredit(ctx context.Context, credit models.PendingCredit) error
	DequeueCredits(ctx context.Context, max int) ([]models.PendingCredit, error)
}

// TransactionLog records wallet movements for the history endpoints.
type TransactionLog interface {
	RecordTransaction(ctx context.Context, tx *models.Transaction) error
}

// GameEngine owns the mines session lifecycle: wager debit, board
// generation, reveal processing, multiplier accrual and settlement.
// All operations for one player are serialized through a striped lock, so a
// reveal and a cash-out can never both settle the same session.
type GameEngine struct {
	wallet   WalletService
	sessions SessionStore
	bias     *BiasResolver
	grid     *GridGenerator
	paytable *Paytable

	credits     CreditQueue
	txlog       TransactionLog
	broadcaster Broadcaster

	locks [64]sync.Mutex
}

func NewGameEngine(wallet WalletService, sessions SessionStore, bias *BiasResolver, grid *GridGenerator, paytable *Paytable) *GameEngine {
	return &GameEngine{
		wallet:   wallet,
		sessions: sessions,
		bias:     bias,
		grid:     grid,
		paytable: paytable,
	}
}

func (ge *GameEngine) SetCreditQueue(q CreditQueue)       { ge.credits = q }
func (ge *GameEngine) SetTransactionLog(l TransactionLog) { ge.txlog = l }
func (ge *GameEngine) SetBroadcaster(b Broadcaster)       { ge.broadcaster = b }

func (ge *GameEngine) playerLock(playerID int64) *sync.Mutex {
	return &ge.locks[uint64(playerID)%uint64(len(ge.locks))]
}

// Start validates the wager, debits the wallet, resolves the player's win
// probability, generates a board and persists the new session.
//
// Debit-then-create ordering: if persisting the session fails after the
// debit succeeded, the debit is compensated with an idempotent refund credit
// keyed by the session ID. The wager is never both taken and orphaned.
func (ge *GameEngine) Start(ctx context.Context, playerID int64, wager int64, riskLevel int) (*models.GameSession, error) {
	if !models.ValidWager(wager) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWager, wager)
	}
	if !models.ValidRiskLevel(riskLevel) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRisk, riskLevel)
	}

	lock := ge.playerLock(playerID)
	lock.Lock()
	defer lock.Unlock()

	if existing, err := ge.sessions.ActiveSession(ctx, playerID); err != nil {
		return nil, fmt.Errorf("%w: active session lookup: %v", ErrExternalService, err)
	} else if existing != nil {
		return nil, ErrSessionAlreadyActive
	}

	base, err := ge.paytable.BaseMultiplier(riskLevel)
	if err != nil {
		return nil, err
	}

	sessionID := models.GenerateGameID()

	if err := ge.wallet.Debit(ctx, playerID, wager, "wager:"+sessionID); err != nil {
		return nil, err
	}

	winProbability := ge.bias.Resolve(ctx, playerID)

	board, err := ge.grid.Generate(riskLevel, winProbability)
	if err != nil {
		ge.refundWager(ctx, playerID, wager, sessionID)
		return nil, err
	}

	now := time.Now()
	session := &models.GameSession{
		ID:         sessionID,
		PlayerID:   playerID,
		Wager:      wager,
		RiskLevel:  riskLevel,
		Board:      *board,
		Multiplier: base,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := ge.sessions.CreateActive(ctx, session); err != nil {
		ge.refundWager(ctx, playerID, wager, sessionID)
		if errors.Is(err, ErrSessionAlreadyActive) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: save session: %v", ErrExternalService, err)
	}

	ge.recordTransaction(ctx, &models.Transaction{
		ID:          models.GenerateTransactionID(),
		PlayerID:    playerID,
		Type:        models.TransactionTypeWager,
		Amount:      -wager,
		GameID:      sessionID,
		Description: fmt.Sprintf("Staked %d coins at risk %d", wager, riskLevel),
		CreatedAt:   now,
	})
	ge.notifyBalance(ctx, playerID)

	return session, nil
}

// Reveal processes one cell reveal. Reveals against a settled session or an
// already-revealed cell are rejected with ErrInvalidState and have no wallet
// side effect.
func (ge *GameEngine) Reveal(ctx context.Context, playerID int64, sessionID string, row, col int) (*models.GameSession, error) {
	lock := ge.playerLock(playerID)
	lock.Lock()
	defer lock.Unlock()

	session, err := ge.ownedSession(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidState, session.Status)
	}
	if !session.Board.InBounds(row, col) {
		return nil, fmt.Errorf("%w: cell (%d,%d) out of bounds", ErrInvalidState, row, col)
	}

	cell := session.Board.At(row, col)
	if cell.Revealed {
		return nil, fmt.Errorf("%w: cell (%d,%d) already revealed", ErrInvalidState, row, col)
	}
	cell.Revealed = true
	session.UpdatedAt = time.Now()

	if cell.HasHazard {
		// Uncover the rest of the hazards so the client can render the
		// full board. The wager stays with the house.
		for i := range session.Board.Cells {
			if session.Board.Cells[i].HasHazard {
				session.Board.Cells[i].Revealed = true
			}
		}
		session.Status = models.StatusLostByHazard
		session.EndedAt = session.UpdatedAt

		if err := ge.sessions.Complete(ctx, session); err != nil {
			return nil, fmt.Errorf("%w: archive session: %v", ErrExternalService, err)
		}
		ge.notifySettlement(ctx, session)
		return session, nil
	}

	growth, err := ge.paytable.GrowthFactor(session.RiskLevel)
	if err != nil {
		return nil, err
	}
	session.SafeRevealed++
	session.Multiplier *= growth

	if session.SafeRevealed == session.SafeCellTotal() {
		return ge.settle(ctx, session, models.StatusWonByClear)
	}

	if err := ge.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: save session: %v", ErrExternalService, err)
	}
	return session, nil
}

// CashOut settles an active session at the current multiplier.
func (ge *GameEngine) CashOut(ctx context.Context, playerID int64, sessionID string) (*models.GameSession, error) {
	lock := ge.playerLock(playerID)
	lock.Lock()
	defer lock.Unlock()

	session, err := ge.ownedSession(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidState, session.Status)
	}

	session.UpdatedAt = time.Now()
	return ge.settle(ctx, session, models.StatusCashedOut)
}

// settle moves an active session to a paying terminal state and credits
// floor(wager * multiplier) exactly once, keyed by the session ID. If the
// credit cannot be confirmed it is durably queued before the session is
// archived; a confirmed win is never dropped, and the dedup key makes a
// replay of the credit harmless.
func (ge *GameEngine) settle(ctx context.Context, session *models.GameSession, status models.GameStatus) (*models.GameSession, error) {
	payout := int64(math.Floor(float64(session.Wager) * session.Multiplier))

	session.Board.RevealAll()
	session.Status = status
	session.Payout = payout
	session.EndedAt = session.UpdatedAt

	if err := ge.wallet.Credit(ctx, session.PlayerID, payout, "payout:"+session.ID); err != nil {
		if ge.credits == nil {
			return nil, err
		}
		qErr := ge.credits.EnqueueCredit(ctx, models.PendingCredit{
			PlayerID:       session.PlayerID,
			Amount:         payout,
			IdempotencyKey: "payout:" + session.ID,
		})
		if qErr != nil {
			return nil, fmt.Errorf("%w: credit failed and could not be queued: %v", ErrExternalService, err)
		}
		log.Printf("credit for game %s queued for retry: %v", session.ID, err)
	}

	if err := ge.sessions.Complete(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: archive session: %v", ErrExternalService, err)
	}

	ge.recordTransaction(ctx, &models.Transaction{
		ID:          models.GenerateTransactionID(),
		PlayerID:    session.PlayerID,
		Type:        models.TransactionTypePayout,
		Amount:      payout,
		GameID:      session.ID,
		Description: fmt.Sprintf("Paid out %d coins at %.4fx", payout, session.Multiplier),
		CreatedAt:   session.EndedAt,
	})
	ge.notifySettlement(ctx, session)

	return session, nil
}

func (ge *GameEngine) ownedSession(ctx context.Context, playerID int64, sessionID string) (*models.GameSession, error) {
	session, err := ge.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PlayerID != playerID {
		return nil, ErrUnauthorized
	}
	return session, nil
}

func (ge *GameEngine) refundWager(ctx context.Context, playerID int64, wager int64, sessionID string) {
	if err := ge.wallet.Credit(ctx, playerID, wager, "refund:"+sessionID); err != nil {
		log.Printf("failed to refund wager for game %s: %v", sessionID, err)
		if ge.credits != nil {
			ge.credits.EnqueueCredit(ctx, models.PendingCredit{
				PlayerID:       playerID,
				Amount:         wager,
				IdempotencyKey: "refund:" + sessionID,
			})
		}
		return
	}
	ge.recordTransaction(ctx, &models.Transaction{
		ID:          models.GenerateTransactionID(),
		PlayerID:    playerID,
		Type:        models.TransactionTypeRefund,
		Amount:      wager,
		GameID:      sessionID,
		Description: "Refunded wager after failed game start",
		CreatedAt:   time.Now(),
	})
}

// FlushPendingCredits replays queued settlement credits. Safe to call on a
// timer; the idempotency keys make duplicate replays no-ops.
func (ge *GameEngine) FlushPendingCredits(ctx context.Context) {
	if ge.credits == nil {
		return
	}
	pending, err := ge.credits.DequeueCredits(ctx, 100)
	if err != nil {
		log.Printf("failed to read pending credits: %v", err)
		return
	}
	for _, c := range pending {
		if err := ge.wallet.Credit(ctx, c.PlayerID, c.Amount, c.IdempotencyKey); err != nil {
			log.Printf("pending credit %s still failing: %v", c.IdempotencyKey, err)
			ge.credits.EnqueueCredit(ctx, c)
		}
	}
}

// CleanupStaleSessions force-settles sessions left active past maxIdle as
// cash-outs at their current multiplier. The player keeps the accrued value;
// the already-debited wager is never seized by a timeout.
func (ge *GameEngine) CleanupStaleSessions(ctx context.Context, maxIdle time.Duration) {
	stale, err := ge.sessions.ActiveSessionsIdleSince(ctx, time.Now().Add(-maxIdle))
	if err != nil {
		log.Printf("stale session scan failed: %v", err)
		return
	}
	for _, session := range stale {
		if _, err := ge.CashOut(ctx, session.PlayerID, session.ID); err != nil {
			log.Printf("failed to expire game %s: %v", session.ID, err)
		}
	}
}

func (ge *GameEngine) recordTransaction(ctx context.Context, tx *models.Transaction) {
	if ge.txlog == nil {
		return
	}
	if balance, err := ge.wallet.Balance(ctx, tx.PlayerID); err == nil {
		tx.BalanceAfter = balance
	}
	if err := ge.txlog.RecordTransaction(ctx, tx); err != nil {
		log.Printf("failed to record transaction %s: %v", tx.ID, err)
	}
}

func (ge *GameEngine) notifyBalance(ctx context.Context, playerID int64) {
	if ge.broadcaster == nil {
		return
	}
	balance, err := ge.wallet.Balance(ctx, playerID)
	if err != nil {
		return
	}
	ge.broadcaster.BroadcastBalance(playerID, balance)
}

func (ge *GameEngine) notifySettlement(ctx context.Context, session *models.GameSession) {
	if ge.broadcaster == nil {
		return
	}
	ge.broadcaster.BroadcastSettlement(session)
	ge.notifyBalance(ctx, session.PlayerID)
}

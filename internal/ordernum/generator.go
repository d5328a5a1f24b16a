package ordernum

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Xlizer1/janah-server-sub000/internal/repo"
)

const prefix = "ORD"

// Generator produces order numbers in the form ORD + YYMMDD + 3-digit daily
// sequence, e.g. ORD240115003. The number here is only a candidate: the unique
// index on orders.order_number is the actual uniqueness guarantee, and callers
// retry with a higher attempt on a duplicate-key error.
type Generator struct {
	Repo *repo.OrderRepo
}

func (g *Generator) Next(ctx context.Context, attempt int) (string, error) {
	now := time.Now().UTC()

	count, err := g.Repo.CountCreatedOn(ctx, now)
	if err != nil {
		return "", fmt.Errorf("count today's orders: %w", err)
	}

	seq := count + 1 + int64(attempt)
	candidate := fmt.Sprintf("%s%s%03d", prefix, now.Format("060102"), seq)

	exists, err := g.Repo.NumberExists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("check order number: %w", err)
	}
	if exists {
		candidate = fmt.Sprintf("%s%d", candidate, rand.Intn(99))
	}

	return candidate, nil
}

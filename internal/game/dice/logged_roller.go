package dice

import "go.uber.org/zap"

// Roller wraps a Source with the integer helpers the resolvers use and logs
// dice-expression rolls at debug level.
//
// A Roller is not safe for concurrent use unless its Source is.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller over src. A nil logger is replaced by a no-op.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// Randint0 returns a value in [0, n). n <= 0 yields 0.
func (r *Roller) Randint0(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Randint1 returns a value in [1, n]. n <= 1 yields 1.
func (r *Roller) Randint1(n int) int {
	if n <= 1 {
		return 1
	}
	return r.src.Intn(n) + 1
}

// OneIn reports a 1-in-n chance. n <= 1 is always true.
func (r *Roller) OneIn(n int) bool {
	return r.Randint0(n) == 0
}

// Chance reports a pct-in-100 chance.
func (r *Roller) Chance(pct int) bool {
	return r.Randint0(100) < pct
}

// Damroll rolls num dice of sides faces without logging.
func (r *Roller) Damroll(num, sides int) int {
	total := 0
	for i := 0; i < num; i++ {
		total += r.Randint1(sides)
	}
	return total
}

// Spread returns a value uniformly in [base-band, base+band].
func (r *Roller) Spread(base, band int) int {
	if band <= 0 {
		return base
	}
	return base - band + r.Randint0(2*band+1)
}

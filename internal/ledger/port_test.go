package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jimohammad/po-sub000/internal/party"
	"github.com/jimohammad/po-sub000/internal/payments"
	"github.com/jimohammad/po-sub000/internal/returns"
)

// The source queries filter on values the domain packages write, so
// the literals must agree exactly or rows silently vanish from
// balance computations.
func TestSourceLiteralsMatchDomainPackages(t *testing.T) {
	require.Equal(t, string(payments.DirectionIn), string(DirectionIn))
	require.Equal(t, string(payments.DirectionOut), string(DirectionOut))

	require.Equal(t, string(returns.OriginSale), string(ReturnOfSale))
	require.Equal(t, string(returns.OriginPurchase), string(ReturnOfPurchase))

	require.Equal(t, string(party.TypeCustomer), string(PartyCustomer))
	require.Equal(t, string(party.TypeSupplier), string(PartySupplier))
}

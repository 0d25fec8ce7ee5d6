package repomanager

import (
	"context"
	"database/sql"

	"github.com/skvault/sleevekeeper/internal/dbx"
	"github.com/skvault/sleevekeeper/internal/server/repositories/decks"
	"github.com/skvault/sleevekeeper/internal/server/repositories/refreshtokens"
	"github.com/skvault/sleevekeeper/internal/server/repositories/sleeves"
	"github.com/skvault/sleevekeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, letting services run
// the same repository code against a plain connection or inside a
// transaction handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Sleeves(db dbx.DBTX) sleeves.Repository
	Decks(db dbx.DBTX) decks.Repository
}

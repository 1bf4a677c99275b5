// internal/app/bootstrap/sources.go
package bootstrap

import (
	donationstore "github.com/onecuponetree/onecup/internal/app/store/donations"
	farmerstore "github.com/onecuponetree/onecup/internal/app/store/farmers"
	impactstatstore "github.com/onecuponetree/onecup/internal/app/store/impactstats"
	orderstore "github.com/onecuponetree/onecup/internal/app/store/orders"
	trainingstore "github.com/onecuponetree/onecup/internal/app/store/training"
	treestore "github.com/onecuponetree/onecup/internal/app/store/trees"
	"github.com/onecuponetree/onecup/internal/domain/impact"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// impactSources binds the Mongo stores to the report's collaborators.
func impactSources(db *mongo.Database, logger *zap.Logger) impact.Sources {
	farmers := farmerstore.New(db)
	return impact.Sources{
		Overrides: impactstatstore.New(db, logger),
		Trees:     treestore.New(db),
		Donations: donationstore.New(db),
		Farmers:   farmers,
		Training:  trainingstore.New(db),
		Cups:      orderstore.New(db),
		Stories:   farmers,
	}
}

func newImpactService(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) *impact.Service {
	return impact.NewService(impactSources(db, logger), impact.Options{
		TopLocations:    appCfg.TopLocations,
		RecentDonations: appCfg.RecentDonations,
	}, logger)
}

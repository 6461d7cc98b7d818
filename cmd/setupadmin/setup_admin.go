package setupadmin

import (
	"context"

	"github.com/sirupsen/logrus"

	"tradejournal/src/security"
)

type SetupAdmin struct {
	Log    *logrus.Entry
	Store  security.AdminStore
	Config security.Config
}

func (s *SetupAdmin) Start(ctx context.Context) error {
	admin, created, err := security.EnsureAdmin(ctx, s.Store, s.Config)
	if err != nil {
		s.Log.WithError(err).Error("admin setup failed")
		return err
	}

	if created {
		s.Log.WithField("login", admin.Login).Info("admin user created")
	} else {
		s.Log.WithField("login", admin.Login).Info("admin user already exists")
	}
	return nil
}

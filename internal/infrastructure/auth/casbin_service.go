package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// accessModel matches a provider subject against route patterns and method regexes
const accessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// ProviderSubject is the casbin subject for tokens issued to a provider
func ProviderSubject(provider string) string {
	return "provider_" + provider
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads policies persisted through the GORM adapter
func NewCasbinService(db *gorm.DB) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newCasbinService(adp)
}

// NewInMemoryCasbinService builds an enforcer without persistence
func NewInMemoryCasbinService() (*CasbinService, error) {
	return newCasbinService(nil)
}

func newCasbinService(adp *gormadapter.Adapter) (*CasbinService, error) {
	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, err
	}

	var e *casbin.Enforcer
	if adp != nil {
		e, err = casbin.NewEnforcer(m, adp)
	} else {
		e, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, err
	}
	if adp != nil {
		if err := e.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	return &CasbinService{E: e}, nil
}

package role

type Global string

const (
	Guest  = Global("guest")
	Player = Global("player")
	Admin  = Global("admin")
)

func (g Global) String() string {
	return string(g)
}

func IsGlobalValid[T Global | string](role T) bool {
	switch Global(role) {
	case Guest, Player, Admin:
		return true
	default:
		return false
	}
}

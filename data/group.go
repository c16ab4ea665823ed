package data

// GroupMember is one player's membership record within a group.
type GroupMember struct {
	Name     string
	PlayerId PlayerId
	Role     GroupRole
}

// GroupInfo describes a group's static membership. Exactly one member
// carries GroupRoleLeader; LeaderId caches that member's id for quick
// lookup without scanning Players.
type GroupInfo struct {
	Name     string
	Id       GroupId
	LeaderId PlayerId
	Players  []GroupMember
}

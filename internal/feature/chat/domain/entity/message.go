// Package entity はchatフィーチャーのドメインモデルを定義します。
package entity

// Role は会話の発話者です。
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid はRoleが既知の値かどうかを返します。
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// Message は会話の1ターンです。
type Message struct {
	Role Role
	Text string
}

package core

// ContentType 区分 feed 服务的两类内容。底层存储按类型分表（posts / clips），
// 引擎内所有按类型路由都走这里的枚举，不依赖 id 编码约定。
type ContentType string

const (
	ContentTypePost ContentType = "posts"
	ContentTypeClip ContentType = "clips"
)

// ErrInvalidContentType 表示调用方传入了未知的内容类型。
// 必须在任何存储访问之前返回。
var ErrInvalidContentType = NewDomainError(ModuleFeed, ErrorCodeInvalidInput, "feed: invalid content type, must be 'posts' or 'clips'")

// ParseContentType 校验并归一内容类型。
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentTypePost, ContentTypeClip:
		return ContentType(s), nil
	default:
		return "", ErrInvalidContentType
	}
}

// ContentTypes 返回全部内容类型，按固定顺序（posts 在前）。
func ContentTypes() []ContentType {
	return []ContentType{ContentTypePost, ContentTypeClip}
}

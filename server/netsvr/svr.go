package netsvr

import (
	"net/http"

	"github.com/zintix-labs/reelspin/server/app"
)

// NetSvr 由最外層組裝使用：路由加上啟停。
// 換 http 框架時只需重新實作此介面，api 套件不受影響。
type NetSvr interface {
	NetRouter
	app.Component

	// Handler 回傳根 handler，讓 httptest 可以不啟動 listener 直接測試
	Handler() http.Handler
}

// NetRouter 只有路由行為，Group 回呼拿到的是它而不是 NetSvr，
// 子模組因此碰不到 Run / Shutdown。
type NetRouter interface {
	Use(mw func(http.Handler) http.Handler)

	// Handle 把同一個 handler 掛到多個 method 上
	Handle(path string, h http.HandlerFunc, methods ...string)
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(prefix string, fn func(NetRouter))
}

package handlers

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// PendingLinks - открыватель ссылок уведомлений для веб-интерфейса.
// Ссылка ждёт следующей страницы заказов этой сессии, где её откроет notify.js.
type PendingLinks struct {
	mu    sync.Mutex
	links map[string]string
}

func NewPendingLinks() *PendingLinks {
	return &PendingLinks{links: make(map[string]string)}
}

func (p *PendingLinks) Open(_ context.Context, view, link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("refusing to open notification link %q", link)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.links[view] = u.String()
	return nil
}

// Take возвращает и забывает ссылку сессии
func (p *PendingLinks) Take(view string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	link := p.links[view]
	delete(p.links, view)
	return link
}

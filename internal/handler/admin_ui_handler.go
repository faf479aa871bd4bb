package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/middleware"
)

// AdminUIHandler serves the back-office pages. They are thin shells that
// drive the JSON API from the browser.
type AdminUIHandler struct {
	verifier auth.Verifier
}

func NewAdminUIHandler(verifier auth.Verifier) *AdminUIHandler {
	return &AdminUIHandler{verifier: verifier}
}

type pageData struct {
	Title     string
	Page      string
	Admin     string
	ProductID string
	Next      string
}

var adminPages = template.Must(template.New("layout").Parse(adminLayout))

func (h *AdminUIHandler) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; connect-src 'self' ws: wss:")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := adminPages.Execute(w, data); err != nil {
		slog.Error("render admin page", "page", data.Page, "error", err)
	}
}

// page re-verifies the session and redirects anonymous callers to the login
// page, like the route guard does.
func (h *AdminUIHandler) page(w http.ResponseWriter, r *http.Request, data pageData) {
	admin, ok := auth.AdminFromRequest(h.verifier, r)
	if !ok {
		http.Redirect(w, r, middleware.LoginRedirectURL(r.URL.Path), http.StatusTemporaryRedirect)
		return
	}

	data.Admin = admin.Email
	h.render(w, data)
}

func (h *AdminUIHandler) Login(w http.ResponseWriter, r *http.Request) {
	next := middleware.SanitizeNext(r.URL.Query().Get("next"))

	if _, ok := auth.AdminFromRequest(h.verifier, r); ok {
		target := next
		if target == "" {
			target = middleware.AdminUIPrefix
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	h.render(w, pageData{Title: "Ingresar", Page: "login", Next: next})
}

func (h *AdminUIHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageData{Title: "Panel", Page: "dashboard"})
}

func (h *AdminUIHandler) Products(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageData{Title: "Productos", Page: "products"})
}

func (h *AdminUIHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageData{Title: "Nuevo producto", Page: "form"})
}

func (h *AdminUIHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.page(w, r, pageData{Title: "Editar producto", Page: "form", ProductID: id.String()})
}

const adminLayout = `<!doctype html>
<html lang="es">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <meta name="robots" content="noindex" />
    <title>{{.Title}} | Boty Admin</title>
    <style>
      body{margin:0;font-family:system-ui,sans-serif;background:#faf7f5;color:#2b2320;}
      header{display:flex;justify-content:space-between;align-items:center;padding:12px 24px;background:#fff;border-bottom:1px solid #eadfd9;}
      main{max-width:960px;margin:24px auto;padding:0 16px;}
      table{width:100%;border-collapse:collapse;background:#fff;}
      th,td{padding:8px;border-bottom:1px solid #eee;text-align:left;}
      input,textarea{width:100%;box-sizing:border-box;padding:6px;margin:4px 0 12px;}
      button,.btn{padding:6px 12px;border:1px solid #2b2320;background:#2b2320;color:#fff;border-radius:4px;cursor:pointer;text-decoration:none;}
      .muted{color:#8a7d77;} .error{color:#b3261e;}
    </style>
  </head>
  <body data-page="{{.Page}}" data-product-id="{{.ProductID}}" data-next="{{.Next}}">
    {{if .Admin}}
    <header>
      <nav><a href="/admin">Panel</a> · <a href="/admin/products">Productos</a></nav>
      <span class="muted">{{.Admin}} <button id="logout" type="button">Salir</button></span>
    </header>
    {{end}}
    <main>
      <h1>{{.Title}}</h1>
      <p id="message" class="error" role="alert"></p>
      {{if eq .Page "login"}}
      <form id="login-form">
        <label>Email <input name="email" type="email" autocomplete="username" required /></label>
        <label>Contrasena <input name="password" type="password" autocomplete="current-password" minlength="8" required /></label>
        <button type="submit">Ingresar</button>
      </form>
      {{else if eq .Page "dashboard"}}
      <p>Gestiona el catalogo de la tienda.</p>
      <p><a class="btn" href="/admin/products">Ver productos</a> <a class="btn" href="/admin/products/new">Nuevo producto</a></p>
      {{else if eq .Page "products"}}
      <form id="search-form"><input name="q" placeholder="Buscar por nombre, slug o categoria" /></form>
      <p><a class="btn" href="/admin/products/new">Nuevo producto</a></p>
      <table><thead><tr><th>Nombre</th><th>Categoria</th><th>Precio</th><th>Activo</th><th></th></tr></thead><tbody id="rows"></tbody></table>
      <p id="pager" class="muted"></p>
      {{else if eq .Page "form"}}
      <form id="product-form">
        <label>Nombre <input name="name" required /></label>
        <label>Slug <input name="slug" required /></label>
        <label>Descripcion <textarea name="description" required></textarea></label>
        <label>Precio <input name="price" type="number" min="0" step="0.01" required /></label>
        <label>Precio original <input name="originalPrice" type="number" min="0" step="0.01" /></label>
        <label>Imagen <input name="image" required /></label>
        <label>Subir imagen <input id="image-file" type="file" accept="image/jpeg,image/png,image/webp,image/gif,image/avif" /></label>
        <label>Badge <input name="badge" /></label>
        <label>Categoria <input name="category" required /></label>
        <label>Tallas (separadas por coma) <input name="sizes" /></label>
        <label>Detalles <textarea name="details"></textarea></label>
        <label>Modo de uso <textarea name="howToUse"></textarea></label>
        <label>Ingredientes <textarea name="ingredients"></textarea></label>
        <label>Envio <textarea name="delivery"></textarea></label>
        <label><input name="active" type="checkbox" checked style="width:auto" /> Activo</label>
        <button type="submit">Guardar</button>
      </form>
      {{end}}
    </main>
    <script>
      const body = document.body;
      const message = document.getElementById('message');
      const api = async (url, opts = {}) => {
        const res = await fetch(url, Object.assign({credentials: 'same-origin', headers: {'Content-Type': 'application/json'}}, opts));
        if (res.status === 401) { location.href = '/admin/login?next=' + encodeURIComponent(location.pathname); throw new Error('401'); }
        const data = await res.json().catch(() => ({}));
        if (!res.ok) { message.textContent = data.error || 'Error'; throw new Error(data.error); }
        return data;
      };
      const logout = document.getElementById('logout');
      if (logout) logout.onclick = () => api('/api/admin/auth/logout', {method: 'POST'}).then(() => location.href = '/admin/login');

      if (body.dataset.page === 'login') {
        document.getElementById('login-form').onsubmit = async (e) => {
          e.preventDefault();
          const f = new FormData(e.target);
          const res = await fetch('/api/admin/auth/login', {method: 'POST', credentials: 'same-origin', headers: {'Content-Type': 'application/json'}, body: JSON.stringify({email: f.get('email'), password: f.get('password')})});
          const data = await res.json().catch(() => ({}));
          if (!res.ok) { message.textContent = data.error || 'Error'; return; }
          location.href = body.dataset.next || '/admin';
        };
      }

      if (body.dataset.page === 'products') {
        let q = '';
        const load = async (page = 1) => {
          const data = await api('/api/admin/products?includeInactive=true&page=' + page + '&q=' + encodeURIComponent(q));
          const rows = document.getElementById('rows');
          rows.replaceChildren(...data.items.map((p) => {
            const tr = document.createElement('tr');
            [p.name, p.category, p.price.toFixed(2), p.active ? 'Si' : 'No'].forEach((v) => { const td = document.createElement('td'); td.textContent = v; tr.appendChild(td); });
            const td = document.createElement('td');
            const edit = document.createElement('a'); edit.href = '/admin/products/' + p.id + '/edit'; edit.textContent = 'Editar';
            const del = document.createElement('button'); del.type = 'button'; del.textContent = 'Eliminar';
            del.onclick = () => confirm('Eliminar ' + p.name + '?') && api('/api/admin/products/' + p.id, {method: 'DELETE'}).then(() => load(page));
            td.append(edit, ' ', del); tr.appendChild(td);
            return tr;
          }));
          document.getElementById('pager').textContent = 'Pagina ' + data.pagination.page + ' de ' + Math.max(1, data.pagination.totalPages) + ' (' + data.pagination.total + ')';
        };
        document.getElementById('search-form').onsubmit = (e) => { e.preventDefault(); q = new FormData(e.target).get('q'); load(); };
        load();
        const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/api/admin/events');
        ws.onmessage = () => load();
      }

      if (body.dataset.page === 'form') {
        const form = document.getElementById('product-form');
        const id = body.dataset.productId;
        const text = ['name', 'slug', 'description', 'image', 'badge', 'category', 'details', 'howToUse', 'ingredients', 'delivery'];
        if (id) {
          api('/api/admin/products/' + id).then(({item}) => {
            text.forEach((k) => { form.elements[k].value = item[k] || ''; });
            form.elements.price.value = item.price;
            form.elements.originalPrice.value = item.originalPrice ?? '';
            form.elements.sizes.value = (item.sizes || []).join(', ');
            form.elements.active.checked = item.active;
          });
        }
        document.getElementById('image-file').onchange = async (e) => {
          const file = e.target.files[0];
          if (!file) return;
          const fd = new FormData(); fd.append('file', file);
          const res = await fetch('/api/admin/uploads/product-image', {method: 'POST', credentials: 'same-origin', body: fd});
          const data = await res.json().catch(() => ({}));
          if (!res.ok) { message.textContent = data.error || 'Error'; return; }
          form.elements.image.value = data.url;
        };
        form.onsubmit = async (e) => {
          e.preventDefault();
          const payload = {};
          text.forEach((k) => { payload[k] = form.elements[k].value; });
          payload.badge = payload.badge.trim() || null;
          payload.price = Number(form.elements.price.value);
          payload.originalPrice = form.elements.originalPrice.value === '' ? null : Number(form.elements.originalPrice.value);
          payload.sizes = form.elements.sizes.value.split(',').map((s) => s.trim()).filter(Boolean);
          payload.active = form.elements.active.checked;
          await api(id ? '/api/admin/products/' + id : '/api/admin/products', {method: id ? 'PATCH' : 'POST', body: JSON.stringify(payload)});
          location.href = '/admin/products';
        };
      }
    </script>
  </body>
</html>`

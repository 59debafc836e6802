// Package views отрисовывает HTML-экраны фронтенда из встроенных шаблонов.
// Каждый экран помечен атрибутом data-screen с идентификатором экрана.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/magabrotheeeer/therapy-booking-front/internal/backend"
)

//go:embed templates/*.html
var files embed.FS

// Screen идентификатор экрана.
type Screen string

const (
	ScreenLogin                Screen = "login"
	ScreenAwaitingVerification Screen = "awaiting_verification"
	ScreenUnpaid               Screen = "unpaid"
	ScreenExpired              Screen = "expired"
	ScreenApp                  Screen = "app"
	ScreenHandoff              Screen = "handoff"
	ScreenPaymentSuccess       Screen = "payment_success"
	ScreenPaymentFailed        Screen = "payment_failed"
	ScreenPaymentError         Screen = "payment_error"
	ScreenError                Screen = "error"
	ScreenAdminLogin           Screen = "admin_login"
	ScreenAdmin                Screen = "admin"
)

var titles = map[Screen]string{
	ScreenLogin:                "Iniciar sesión",
	ScreenAwaitingVerification: "Verificación",
	ScreenUnpaid:               "Suscripción",
	ScreenExpired:              "Suscripción expirada",
	ScreenApp:                  "Inicio",
	ScreenHandoff:              "Redirigiendo al pago",
	ScreenPaymentSuccess:       "Pago exitoso",
	ScreenPaymentFailed:        "Pago rechazado",
	ScreenPaymentError:         "Error en el pago",
	ScreenError:                "Error",
	ScreenAdminLogin:           "Administración",
	ScreenAdmin:                "Administración",
}

// LoginData данные экрана входа.
type LoginData struct {
	Email   string
	Message string
}

// VerificationData данные экрана ожидания верификации.
// Draft заполняет форму из сохранённого черновика.
type VerificationData struct {
	Verification string
	Draft        backend.VerificationRequest
	Message      string
}

// CheckoutData данные экранов оплаты и продления подписки.
type CheckoutData struct {
	Price   int64
	Message string
}

// AppData данные главного экрана.
type AppData struct {
	Email string
}

// TransferData форма передачи браузера шлюзу.
type TransferData struct {
	Action string
	Method string
	Fields map[string]string
}

// PaymentData данные экранов итога оплаты.
type PaymentData struct {
	OrderID string
}

// MessageData экраны с одним сообщением.
type MessageData struct {
	Message string
}

// AdminData данные панели администратора.
type AdminData struct {
	Subject string
}

type page struct {
	Screen Screen
	Title  string
	Data   any
}

// Renderer отрисовывает экраны.
type Renderer struct {
	tmpl *template.Template
}

// New разбирает встроенные шаблоны.
func New() (*Renderer, error) {
	const op = "views.New"
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for screen := range titles {
		if tmpl.Lookup(string(screen)) == nil {
			return nil, fmt.Errorf("%s: template for screen %q is missing", op, screen)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew как New, но паникует при ошибке. Шаблоны встроены в бинарник,
// поэтому ошибка означает сломанную сборку.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render пишет экран screen с кодом status. Шаблон исполняется в буфер,
// чтобы при ошибке не отдать клиенту половину страницы.
func (r *Renderer) Render(w http.ResponseWriter, status int, screen Screen, data any) error {
	const op = "views.Render"
	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, string(screen), page{
		Screen: screen,
		Title:  titles[screen],
		Data:   data,
	})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("%s: %w", op, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

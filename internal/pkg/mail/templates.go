package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const weeklyRecommendationTpl = `<!DOCTYPE html>
<html lang="ja">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,Noto Sans,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border-width:1px;border-style:solid;border-radius:.25rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1),0 2px 4px -2px rgb(0 0 0 / .1);margin:40px auto;padding:20px;width:550px;border-color:rgb(234,88,12);position:relative;overflow:hidden">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">📚 今週の積読本おすすめ</h1>
        {{if .ImageURL}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:16px 0">
          <tbody><tr><td>
            <img src="{{.ImageURL}}" alt="{{.Title}}" style="display:block;outline:none;border:none;text-decoration:none;margin:0 auto;max-height:180px;border-radius:.25rem" />
          </td></tr></tbody>
        </table>
        {{end}}
        <h2 style="font-size:20px;text-align:center;margin:16px 0">{{.Title}}</h2>
        {{if .Author}}<p style="font-size:14px;line-height:24px;margin:8px 0;text-align:center;color:rgb(107,114,128)">{{.Author}}</p>{{end}}
        {{if .PurchaseReason}}
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">購入したときの気持ち：</p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:12px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{.PurchaseReason}}</p></td></tr></tbody>
        </table>
        {{end}}
        {{if .TsundokuDays}}
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">積読になってから <strong>{{.TsundokuDays}}日</strong> 経ちました。</p>
        {{end}}
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">現在の積読は全部で <strong>{{.TsundokuCount}}冊</strong>。今週はこの一冊から始めてみませんか？</p>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">本メールはシステムから自動送信されています。<br />©{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// WeeklyRecommendationData is the data for the weekly recommendation email.
type WeeklyRecommendationData struct {
	UserName       string
	Title          string
	Author         string
	ImageURL       string
	PurchaseReason string
	TsundokuDays   int
	TsundokuCount  int64
	SiteName       string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendWeeklyRecommendation sends the weekly tsundoku pick to a user.
func (s *Sender) SendWeeklyRecommendation(to string, data WeeklyRecommendationData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Tsundoku"
	}
	html, err := renderTemplate(weeklyRecommendationTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("📚 今週の積読本おすすめ - %s はいかがですか？", data.Title),
		HTML:    html,
	})
}

package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Home is the index/login page. roomID pre-fills the join form when the page
// is opened from a shared link.
func Home(rooms []RoomSummary, roomID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="ja">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>ワードウルフ</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <h1>ワードウルフ</h1>
        <p>みんなと違うワードを持つ「ワードウルフ」を見つけ出そう。</p>
      </header>

      <section class="panel">
        <h2>部屋を作る</h2>
        <form id="createForm">
          <input name="room_id" placeholder="部屋ID（空欄で自動）" autocomplete="off"/>
          <input name="room_name" placeholder="部屋名" required/>
          <input name="max_players" type="number" min="3" value="4"/>
          <input name="wolf_count" type="number" min="1" value="1"/>
          <input name="discussion_time" type="number" min="1" value="180"/>
          <select name="genre">
            <option value="Food">食べ物</option>
            <option value="Animal">動物</option>
            <option value="Place">場所</option>
            <option value="Object">物</option>
            <option value="Custom">おまかせ</option>
          </select>
          <button type="submit">作成</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>部屋に参加する</h2>
        <form id="joinForm">
          <input name="room_id" placeholder="部屋ID" value="`)
		b.WriteString(esc(roomID))
		b.WriteString(`" required/>
          <input name="player_name" placeholder="名前" autocomplete="nickname" required/>
          <button type="submit">参加</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>部屋一覧</h2>
        <ul id="rooms">`)
		if len(rooms) == 0 {
			b.WriteString(`
          <li class="empty">まだ部屋がありません</li>`)
		}
		for _, room := range rooms {
			b.WriteString(`
          <li data-room="`)
			b.WriteString(esc(room.ID))
			b.WriteString(`"><strong>`)
			b.WriteString(esc(room.Name))
			b.WriteString(`</strong> (`)
			b.WriteString(esc(room.ID))
			b.WriteString(`) `)
			b.WriteString(itoa(room.Players))
			b.WriteString(`/`)
			b.WriteString(itoa(room.MaxPlayers))
			b.WriteString(`人 ・ ウルフ`)
			b.WriteString(itoa(room.WolfCount))
			b.WriteString(`人 ・ `)
			b.WriteString(esc(room.Genre))
			b.WriteString(` ・ `)
			b.WriteString(esc(phaseLabel(room.Phase)))
			b.WriteString(`</li>`)
		}
		b.WriteString(`
        </ul>
      </section>

      <section class="panel" id="game" hidden>
        <h2 id="phase"></h2>
        <p id="topic"></p>
        <ul id="log"></ul>
      </section>
    </main>

    <script>
      const post = async (path, form) => {
        const res = await fetch(path, { method: "POST", body: new URLSearchParams(new FormData(form)) });
        return { ok: res.ok, data: await res.json() };
      };
      const log = (text) => {
        const li = document.createElement("li");
        li.textContent = text;
        document.getElementById("log").prepend(li);
      };

      document.getElementById("createForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const { ok, data } = await post("/room/create", event.target);
        document.getElementById("createResult").textContent = ok ? "部屋ID: " + data.room_id : data.error;
      });

      document.getElementById("joinForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const { ok, data } = await post("/room/join", event.target);
        if (!ok) {
          document.getElementById("joinResult").textContent = data.error;
          return;
        }
        const roomID = event.target.elements.room_id.value.trim();
        document.getElementById("game").hidden = false;
        const source = new EventSource("/events?room_id=" + encodeURIComponent(roomID) + "&id=" + encodeURIComponent(data.player_id));
        source.onmessage = (msg) => {
          if (msg.data.startsWith("CHAT|") || msg.data.startsWith("NOTICE|")) {
            log(msg.data.split("|").slice(1).join(": "));
            return;
          }
          const payload = JSON.parse(msg.data);
          if (payload.type === "your_topic") {
            document.getElementById("topic").textContent = "あなたのワード: " + payload.topic;
          } else if (payload.type === "state") {
            document.getElementById("phase").textContent = payload.phase;
          }
        };
      });
    </script>
  </body>
</html>
`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

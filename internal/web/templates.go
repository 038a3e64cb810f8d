package web

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Sessionboard</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,'Segoe UI',sans-serif;background:#0d1117;color:#c9d1d9;font-size:14px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:10px 16px;display:flex;gap:16px;align-items:center}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px}
nav a{color:#8b949e;padding:4px 8px;border-radius:4px}
nav a:hover{color:#c9d1d9;background:#21262d;text-decoration:none}
nav .who{margin-left:auto;color:#8b949e;font-size:12px}
main{padding:16px;max-width:1100px;margin:0 auto}
h1{font-size:17px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:12px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:120px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
table{width:100%;border-collapse:collapse;font-size:13px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
tr:hover td{background:#161b22}
.mono{font-family:monospace;font-size:12px;color:#79c0ff}
.dim{color:#8b949e}
.ok{color:#56d364}
.warn{color:#f59e0b}
.err{color:#f87171}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow:hidden}
.section-hdr{padding:8px 12px;border-bottom:1px solid #30363d;font-size:11px;font-weight:600;color:#8b949e;text-transform:uppercase;background:#0d1117}
.section-body{padding:12px}
pre{white-space:pre-wrap;word-break:break-all;font-family:monospace;font-size:12px;color:#c9d1d9}
.filters{display:flex;gap:8px;flex-wrap:wrap;align-items:center;margin-bottom:12px;background:#161b22;padding:8px 12px;border-radius:6px;border:1px solid #30363d}
.filters label{font-size:11px;color:#8b949e}
.filters select,.filters input{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:4px 6px;font-size:13px}
.filters button,button.primary{background:#1f6feb;border:none;color:#fff;padding:5px 14px;border-radius:4px;cursor:pointer;font-size:13px}
.notice{background:#3d1d1d;border:1px solid #f85149;color:#f87171;padding:8px 12px;border-radius:6px;margin-bottom:12px}
.login-box{max-width:360px;margin:80px auto;background:#161b22;border:1px solid #30363d;border-radius:6px;padding:24px}
.login-box input{width:100%;margin:8px 0 16px;background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:8px}
.summary{padding:12px}
.summary h1,.summary h2,.summary h3{margin:8px 0 4px;color:#f0f6fc}
.summary p{margin:4px 0}
.summary code{background:#21262d;padding:1px 4px;border-radius:3px;font-size:12px}
</style>
</head>
<body>
<nav>
  <span class="brand">Sessionboard</span>
  <a href="/">Sessions</a>
  <span class="who">{{with .UserID}}{{.}} · {{end}}<a href="/logout">Log out</a></span>
</nav>
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

// ── Login ─────────────────────────────────────────────────────────────────────

const tmplLogin = `
{{define "content"}}
<div class="login-box">
  <h1>Sign in</h1>
  {{with .Message}}<div class="notice">{{.}}</div>{{end}}
  <form method="POST" action="/login">
    <label for="user_id">User ID</label>
    <input type="text" id="user_id" name="user_id" value="{{.UserID}}" autofocus>
    <button class="primary" type="submit">Sign in</button>
  </form>
</div>
{{end}}`

// ── Index ─────────────────────────────────────────────────────────────────────

// The index page loads the listing and filter options client-side from the
// JSON routes, so filter changes never re-render the page.
const tmplIndex = `
{{define "content"}}
<h1>Agent Sessions</h1>
<div class="filters">
  <label>Window</label>
  <select id="time-filter">
    <option value="1h">Last hour</option>
    <option value="24h" selected>Last 24 hours</option>
    <option value="7d">Last 7 days</option>
    <option value="all">All time</option>
  </select>
  <label>Session</label>
  <select id="session-filter"><option value="all">all</option></select>
  <label>User</label>
  <select id="user-filter"><option value="all">all</option></select>
  <label>Agent</label>
  <select id="agent-filter"><option value="all">all</option></select>
  <button id="refresh">Refresh</button>
</div>
<div class="cards">
  <div class="card"><div class="val" id="count-total">–</div><div class="lbl">Total</div></div>
  <div class="card"><div class="val ok" id="count-completed">–</div><div class="lbl">Completed</div></div>
  <div class="card"><div class="val warn" id="count-in-progress">–</div><div class="lbl">In progress</div></div>
  <div class="card"><div class="val err" id="count-failed">–</div><div class="lbl">Failed</div></div>
</div>
<div id="error" class="notice" style="display:none"></div>
<table>
  <thead><tr><th>Session</th><th>User</th><th>Agent</th><th>Status</th><th>Created</th><th>Updated</th></tr></thead>
  <tbody id="sessions-body"></tbody>
</table>
<script>
const $ = (id) => document.getElementById(id);

function fillSelect(sel, values) {
  const current = sel.value;
  sel.innerHTML = '<option value="all">all</option>';
  for (const v of values) {
    const opt = document.createElement('option');
    opt.value = v;
    opt.textContent = v;
    sel.appendChild(opt);
  }
  sel.value = current;
  if (sel.selectedIndex < 0) sel.value = 'all';
}

async function refresh() {
  const tf = $('time-filter').value;
  const params = new URLSearchParams();
  for (const [id, name] of [['session-filter','session_id'],['user-filter','user_id'],['agent-filter','agent_uuid']]) {
    params.set(name, $(id).value);
  }
  $('error').style.display = 'none';
  try {
    const [listingResp, optionsResp] = await Promise.all([
      fetch('/sessions/' + tf + '?' + params),
      fetch('/filter-options/' + tf),
    ]);
    const listing = await listingResp.json();
    if (!listingResp.ok) throw new Error(listing.error || 'listing failed');
    const options = await optionsResp.json();
    if (!optionsResp.ok) throw new Error(options.error || 'filter options failed');

    $('count-total').textContent = listing.summary.total_sessions;
    $('count-completed').textContent = listing.summary.completed;
    $('count-in-progress').textContent = listing.summary.in_progress;
    $('count-failed').textContent = listing.summary.failed;

    fillSelect($('session-filter'), options.session_ids);
    fillSelect($('user-filter'), options.user_ids);
    fillSelect($('agent-filter'), options.agent_uuids);

    const body = $('sessions-body');
    body.innerHTML = '';
    for (const s of listing.sessions) {
      const tr = document.createElement('tr');
      const cls = {completed:'ok', in_progress:'warn', failed:'err'}[s.status] || 'dim';
      tr.innerHTML = '<td><a class="mono" href="/session/' + encodeURIComponent(s.session_id) + '"></a></td>' +
        '<td></td><td class="mono"></td><td class="' + cls + '"></td><td class="dim"></td><td class="dim"></td>';
      tr.children[0].firstChild.textContent = s.session_id;
      tr.children[1].textContent = s.user_id;
      tr.children[2].textContent = s.agent_uuid;
      tr.children[3].textContent = s.status;
      tr.children[4].textContent = s.created_at || '';
      tr.children[5].textContent = s.updated_at || '';
      body.appendChild(tr);
    }
  } catch (err) {
    $('error').textContent = err.message;
    $('error').style.display = 'block';
  }
}

$('refresh').addEventListener('click', refresh);
for (const id of ['time-filter','session-filter','user-filter','agent-filter']) {
  $(id).addEventListener('change', refresh);
}
refresh();
</script>
{{end}}`

// ── Session detail ────────────────────────────────────────────────────────────

const tmplSession = `
{{define "content"}}
<h1>Session <span class="mono">{{.View.SessionID}}</span></h1>

{{with .View.StatusSummary}}
<div class="cards">
  <div class="card"><div class="val {{statusClass .Status}}">{{.Status}}</div><div class="lbl">Status</div></div>
  <div class="card"><div class="val">{{.UserID}}</div><div class="lbl">User</div></div>
  <div class="card"><div class="val mono">{{truncate .AgentUUID 20}}</div><div class="lbl">Agent</div></div>
</div>
{{else}}
<p class="dim">Session status unavailable.</p>
{{end}}

{{with .SummaryHTML}}
<div class="section">
  <div class="section-hdr">Summary</div>
  <div class="summary">{{.}}</div>
</div>
{{end}}

{{with .EventStats}}
<div class="section">
  <div class="section-hdr">Event stats</div>
  <div class="section-body"><pre>{{.}}</pre></div>
</div>
{{end}}

<div class="filters">
  <form method="GET" action="/session/{{.View.SessionID}}">
    <label>Subagent</label>
    <select name="subagent_id">
      <option value="">all</option>
      {{$current := .View.CurrentSubagent}}
      {{range .View.Subagents}}
      <option value="{{.SubagentID}}" {{if eq .SubagentID $current}}selected{{end}}>{{.SubagentID}}</option>
      {{end}}
    </select>
    <label>Event type</label>
    <select name="event_type">
      <option value="">all</option>
      {{$kind := .View.CurrentEventType}}
      {{range .View.EventTypes}}
      <option value="{{.}}" {{if eq . $kind}}selected{{end}}>{{.}}</option>
      {{end}}
    </select>
    <button type="submit">Apply</button>
  </form>
</div>

{{if .View.Subagents}}
<h2>Subagents</h2>
<table>
  <thead><tr><th>Subagent</th><th>Name</th><th>Status</th></tr></thead>
  <tbody>
  {{range .View.Subagents}}
  <tr><td class="mono">{{.SubagentID}}</td><td>{{.Name}}</td><td class="{{statusClass .Status}}">{{.Status}}</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}

{{with .SubStats}}
<div class="section">
  <div class="section-hdr">Subagent stats</div>
  <div class="section-body"><pre>{{.}}</pre></div>
</div>
{{end}}

<h2>Events</h2>
{{if .View.Events}}
<table>
  <thead><tr><th>Time</th><th>Type</th><th>Subagent</th><th>Payload</th></tr></thead>
  <tbody>
  {{range .View.Events}}
  <tr>
    <td class="dim">{{.Timestamp}}</td>
    <td>{{.EventType}}</td>
    <td class="mono">{{.SubagentID}}</td>
    <td><pre>{{printf "%s" .Payload}}</pre></td>
  </tr>
  {{end}}
  </tbody>
</table>
{{else}}
<p class="dim">No events.</p>
{{end}}
{{end}}`

// ── Error page ────────────────────────────────────────────────────────────────

const tmplError = `
{{define "content"}}
<h1>Something went wrong</h1>
<div class="notice">{{.Headline}}</div>
<p class="dim">{{.Detail}}</p>
<p><a href="/">Back to sessions</a></p>
{{end}}`

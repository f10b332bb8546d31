package toolset

// CitiesResourceURI is the URI of the bundled city dataset exposed by the
// Streamable HTTP capability set.
const CitiesResourceURI = "weather://canada/cities"

const canadaCitiesJSON = `{
  "cities": [
    {"name": "Toronto", "province": "ON"},
    {"name": "Montreal", "province": "QC"},
    {"name": "Vancouver", "province": "BC"},
    {"name": "Calgary", "province": "AB"},
    {"name": "Edmonton", "province": "AB"},
    {"name": "Ottawa", "province": "ON"},
    {"name": "Winnipeg", "province": "MB"},
    {"name": "Quebec City", "province": "QC"},
    {"name": "Halifax", "province": "NS"},
    {"name": "Victoria", "province": "BC"},
    {"name": "Saskatoon", "province": "SK"},
    {"name": "Regina", "province": "SK"},
    {"name": "St. John's", "province": "NL"},
    {"name": "Fredericton", "province": "NB"},
    {"name": "Charlottetown", "province": "PE"},
    {"name": "Whitehorse", "province": "YT"},
    {"name": "Yellowknife", "province": "NT"},
    {"name": "Iqaluit", "province": "NU"}
  ]
}`
